package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory record in the catalogue.
//
// Price is stored as decimal(10,2) and serialised as a JSON string so
// amounts never round-trip through a float64. NeedRestock is derived
// from the quantities by the stock policy, but it stays a stored column
// because the manual-override endpoint may set it independently.
// Deletion is permanent, so there is no soft-delete column.
type Product struct {
	ID                uint            `gorm:"primarykey"                    json:"id"`
	Name              string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description       string          `gorm:"type:text"                     json:"description"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"price"`
	TotalQuantity     int             `gorm:"not null;default:0"            json:"total_quantity"`
	AvailableQuantity int             `gorm:"not null;default:0"            json:"available_quantity"`
	NeedRestock       bool            `gorm:"not null;default:false"        json:"need_restock"`
	ImageURL          string          `gorm:"size:500"                      json:"image_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
