package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000001_create_users_table", &CreateUsersTable{})
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}
