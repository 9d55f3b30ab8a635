package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
)

// Sentinel errors surfaced by repositories. Services translate these
// into the apperr taxonomy; anything else is an unexpected storage fault.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already taken")
)

// ProductRepository handles database operations for Product.
// It owns identity assignment (autoincrement IDs) and the uniqueness
// constraint on Name; the catalog service owns every other invariant.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Transaction runs fn against a repository bound to a single database
// transaction. Every read-then-write use case goes through here so the
// read, recompute and write commit as one unit.
func (r *ProductRepository) Transaction(fn func(*ProductRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepository{db: tx})
	})
}

// Create persists a new product and assigns its ID.
// Returns ErrDuplicateName when the name is already taken.
func (r *ProductRepository) Create(product *models.Product) error {
	taken, err := r.NameTaken(product.Name, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	if err := r.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

// All returns every product in primary-key order.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("id").Find(&products).Error
	return products, err
}

// NeedingRestock returns every product whose restock flag is set,
// in primary-key order.
func (r *ProductRepository) NeedingRestock() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("need_restock = ?", true).Order("id").Find(&products).Error
	return products, err
}

// Save persists changes to an existing product.
// Returns ErrDuplicateName when a renamed product collides.
func (r *ProductRepository) Save(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Delete removes a product permanently (no soft delete).
// Returns ErrNotFound when the id does not exist.
func (r *ProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NameTaken reports whether another product (id != excludeID) already
// uses the given name.
func (r *ProductRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// DecrementAvailable atomically takes one unit of available stock.
// The decrement is guarded in SQL by `available_quantity >= 1`, so two
// concurrent purchases of the last unit can never both succeed and the
// count can never go negative. Returns false when no row qualified
// (missing product or nothing available).
func (r *ProductRepository) DecrementAvailable(id uint) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND available_quantity >= ?", id, 1).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", 1))
	return res.RowsAffected > 0, res.Error
}

// isUniqueViolation sniffs driver-specific unique-constraint errors.
// GORM only translates these on some dialects, so match the message too.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
