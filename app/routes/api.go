package routes

import (
	"github.com/shashiranjanraj/stockpile/app/controllers"
	"github.com/shashiranjanraj/stockpile/pkg/router"
)

// RegisterAPI mounts every use-case endpoint under /api. The paths
// mirror the use cases one to one.
func RegisterAPI(r *router.Router, products *controllers.ProductController, auth *controllers.AuthController) {
	api := r.Group("/api")

	api.Post("/products", "products.create", products.Create)
	api.Get("/products", "products.list", products.List)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Put("/products/{id}", "products.update", products.Update)
	api.Post("/products/{id}/buy", "products.buy", products.Buy)
	api.Delete("/products/{id}", "products.delete", products.Delete)

	api.Get("/restock/list", "restock.list", products.RestockList)
	api.Put("/restock/update/{id}", "restock.override", products.RestockOverride)

	api.Post("/auth/login", "auth.login", auth.Login)
}
