package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/app/stock"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/metrics"
)

const maxNameLength = 255
const maxImageURLLength = 500

// CatalogService orchestrates the stock policy and the product
// repository for every catalogue use case. It owns the product
// invariants; the repository owns persistence and identity.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(products *repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ProductInput carries the fields accepted on creation. Price and the
// two quantities are pointers so that an absent field is distinguishable
// from an explicit zero; all three are required.
type ProductInput struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	TotalQuantity     *int             `json:"total_quantity"`
	AvailableQuantity *int             `json:"available_quantity"`
	ImageURL          string           `json:"image_url"`
}

// ProductPatch carries a partial update. A nil field means "leave
// unchanged"; presence is checked at compile time through the pointer,
// not by probing a dynamic map.
type ProductPatch struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	TotalQuantity     *int             `json:"total_quantity"`
	AvailableQuantity *int             `json:"available_quantity"`
	ImageURL          *string          `json:"image_url"`
}

// CreateProduct validates the input, computes the initial restock flag
// and persists the record. All violated fields are reported together.
func (s *CatalogService) CreateProduct(in ProductInput) (models.Product, error) {
	if errs := validateProductInput(in); len(errs) > 0 {
		return models.Product{}, apperr.NewValidation(errs)
	}

	product := models.Product{
		Name:              in.Name,
		Description:       in.Description,
		Price:             *in.Price,
		TotalQuantity:     *in.TotalQuantity,
		AvailableQuantity: *in.AvailableQuantity,
		NeedRestock:       stock.NeedsRestock(*in.TotalQuantity, *in.AvailableQuantity),
		ImageURL:          in.ImageURL,
	}

	if err := s.products.Create(&product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return models.Product{}, apperr.NewConflict(fmt.Sprintf("A product named %q already exists", in.Name))
		}
		return models.Product{}, apperr.WrapStorage(err)
	}
	return product, nil
}

// GetProduct returns the product with the given id.
func (s *CatalogService) GetProduct(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, translateRepoErr(err)
	}
	return product, nil
}

// ListProducts returns every product in repository order.
func (s *CatalogService) ListProducts() ([]models.Product, error) {
	products, err := s.products.All()
	if err != nil {
		return nil, apperr.WrapStorage(err)
	}
	return products, nil
}

// ListNeedingRestock returns every product currently flagged for
// restock, in repository order.
func (s *CatalogService) ListNeedingRestock() ([]models.Product, error) {
	products, err := s.products.NeedingRestock()
	if err != nil {
		return nil, apperr.WrapStorage(err)
	}
	return products, nil
}

// UpdateProduct applies a partial update. Only present fields are
// validated and written. When either quantity field is present, the
// restock flag is recomputed from the post-update quantities; a prior
// manual override is deliberately overwritten by that recomputation.
func (s *CatalogService) UpdateProduct(id uint, patch ProductPatch) (models.Product, error) {
	var out models.Product
	err := s.products.Transaction(func(r *repositories.ProductRepository) error {
		product, err := r.FindByID(id)
		if err != nil {
			return err
		}

		applyPatch(&product, patch)

		if errs := validateProductPatch(patch, product); len(errs) > 0 {
			return apperr.NewValidation(errs)
		}

		if patch.Name != nil {
			taken, err := r.NameTaken(product.Name, product.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperr.NewConflict(fmt.Sprintf("A product named %q already exists", product.Name))
			}
		}

		if patch.TotalQuantity != nil || patch.AvailableQuantity != nil {
			product.NeedRestock = stock.NeedsRestock(product.TotalQuantity, product.AvailableQuantity)
		}

		if err := r.Save(&product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return models.Product{}, translateRepoErr(err)
	}
	return out, nil
}

// PurchaseOne takes a single unit of available stock. The decrement is
// conditional at the SQL level and the recompute happens in the same
// transaction, so concurrent purchases serialise and the available
// count never goes below zero.
func (s *CatalogService) PurchaseOne(id uint) (models.Product, error) {
	var out models.Product
	err := s.products.Transaction(func(r *repositories.ProductRepository) error {
		ok, err := r.DecrementAvailable(id)
		if err != nil {
			return err
		}
		if !ok {
			// Nothing decremented: either the product is missing or
			// there was no stock left. Look it up to tell the two apart.
			if _, err := r.FindByID(id); err != nil {
				return err
			}
			metrics.OutOfStockTotal.Inc()
			return apperr.NewOutOfStock()
		}

		product, err := r.FindByID(id)
		if err != nil {
			return err
		}
		product.NeedRestock = stock.NeedsRestock(product.TotalQuantity, product.AvailableQuantity)
		if err := r.Save(&product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return models.Product{}, translateRepoErr(err)
	}
	metrics.PurchaseTotal.Inc()
	return out, nil
}

// DeleteProduct removes a product permanently.
func (s *CatalogService) DeleteProduct(id uint) error {
	if err := s.products.Delete(id); err != nil {
		return translateRepoErr(err)
	}
	return nil
}

// SetRestockOverride sets the restock flag verbatim, bypassing the
// stock policy. The value sticks until the next quantity-changing
// update recomputes the flag.
func (s *CatalogService) SetRestockOverride(id uint, value bool) (models.Product, error) {
	var out models.Product
	err := s.products.Transaction(func(r *repositories.ProductRepository) error {
		product, err := r.FindByID(id)
		if err != nil {
			return err
		}
		product.NeedRestock = value
		if err := r.Save(&product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return models.Product{}, translateRepoErr(err)
	}
	return out, nil
}

// validateProductInput checks every creation constraint and collects
// all violations, one message per field. Name, price and both
// quantities are required; lengths count characters, not bytes.
func validateProductInput(in ProductInput) map[string]string {
	errs := make(map[string]string)

	if in.Name == "" {
		errs["name"] = "The name field is required."
	} else if utf8.RuneCountInString(in.Name) > maxNameLength {
		errs["name"] = fmt.Sprintf("The name must not exceed %d characters.", maxNameLength)
	}
	switch {
	case in.Price == nil:
		errs["price"] = "The price field is required."
	case in.Price.IsNegative():
		errs["price"] = "The price must be at least 0."
	}
	switch {
	case in.TotalQuantity == nil:
		errs["total_quantity"] = "The total_quantity field is required."
	case *in.TotalQuantity < 0:
		errs["total_quantity"] = "The total_quantity must be at least 0."
	}
	switch {
	case in.AvailableQuantity == nil:
		errs["available_quantity"] = "The available_quantity field is required."
	case *in.AvailableQuantity < 0:
		errs["available_quantity"] = "The available_quantity must be at least 0."
	}
	if utf8.RuneCountInString(in.ImageURL) > maxImageURLLength {
		errs["image_url"] = fmt.Sprintf("The image_url must not exceed %d characters.", maxImageURLLength)
	}

	// Only meaningful once both quantities are present and valid.
	if _, ok := errs["total_quantity"]; !ok {
		if _, ok := errs["available_quantity"]; !ok {
			if *in.AvailableQuantity > *in.TotalQuantity {
				errs["available_quantity"] = "The available_quantity must not exceed total_quantity."
			}
		}
	}

	return errs
}

// validateProductPatch checks only the fields present in the patch,
// against the same constraints as creation. merged is the product with
// the patch already applied, used for the cross-field quantity check.
func validateProductPatch(patch ProductPatch, merged models.Product) map[string]string {
	errs := make(map[string]string)

	if patch.Name != nil {
		if *patch.Name == "" {
			errs["name"] = "The name field is required."
		} else if utf8.RuneCountInString(*patch.Name) > maxNameLength {
			errs["name"] = fmt.Sprintf("The name must not exceed %d characters.", maxNameLength)
		}
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		errs["price"] = "The price must be at least 0."
	}
	if patch.TotalQuantity != nil && *patch.TotalQuantity < 0 {
		errs["total_quantity"] = "The total_quantity must be at least 0."
	}
	if patch.AvailableQuantity != nil && *patch.AvailableQuantity < 0 {
		errs["available_quantity"] = "The available_quantity must be at least 0."
	}
	if patch.ImageURL != nil && utf8.RuneCountInString(*patch.ImageURL) > maxImageURLLength {
		errs["image_url"] = fmt.Sprintf("The image_url must not exceed %d characters.", maxImageURLLength)
	}

	if (patch.TotalQuantity != nil || patch.AvailableQuantity != nil) &&
		len(errs) == 0 && merged.AvailableQuantity > merged.TotalQuantity {
		errs["available_quantity"] = "The available_quantity must not exceed total_quantity."
	}

	return errs
}

func applyPatch(product *models.Product, patch ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.TotalQuantity != nil {
		product.TotalQuantity = *patch.TotalQuantity
	}
	if patch.AvailableQuantity != nil {
		product.AvailableQuantity = *patch.AvailableQuantity
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
}

// translateRepoErr maps repository sentinels onto the apperr taxonomy.
// apperr values produced inside a transaction pass through unchanged;
// anything else is an unexpected storage fault.
func translateRepoErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NewNotFound("Product")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.WrapStorage(err)
}
