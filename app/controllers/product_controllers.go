package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/bind"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

// ProductController exposes the catalogue use cases over HTTP, one
// endpoint per operation.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// productID parses the {id} path parameter. Non-numeric ids are treated
// as a missing resource, not a validation failure.
func productID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := c.catalog.CreateProduct(in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "product_id", product.ID, "name", product.Name)
	response.Created(w, product)
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListProducts()
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, products)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.catalog.GetProduct(id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var patch services.ProductPatch
	if err := bind.JSON(r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := c.catalog.UpdateProduct(id, patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Buy(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.catalog.PurchaseOne(id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product purchased",
		"product_id", product.ID, "available", product.AvailableQuantity)
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.catalog.DeleteProduct(id); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (c *ProductController) RestockList(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListNeedingRestock()
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, products)
}

func (c *ProductController) RestockOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	// The pointer distinguishes "absent" from "false"; a non-boolean
	// value is a decode error. Both are field-level validation failures.
	var body struct {
		NeedRestock *bool `json:"need_restock"`
	}
	if err := bind.JSON(r, &body); err != nil || body.NeedRestock == nil {
		response.ValidationError(w, map[string]string{
			"need_restock": "The need_restock field is required and must be a boolean.",
		})
		return
	}

	product, err := c.catalog.SetRestockOverride(id, *body.NeedRestock)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, product)
}
