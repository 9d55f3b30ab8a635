// Package server wires the application together and runs the HTTP
// listener. All dependencies are constructed here and passed down
// explicitly; there is no service container and no package-global
// database handle.
package server

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/controllers"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/app/routes"
	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/metrics"
	"github.com/shashiranjanraj/stockpile/pkg/middleware"
	"github.com/shashiranjanraj/stockpile/pkg/reqid"
	"github.com/shashiranjanraj/stockpile/pkg/router"
)

// NewRouter builds the full router (middleware stack, metrics endpoint
// and every API route) on top of the given database handle.
func NewRouter(db *gorm.DB) *router.Router {
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)

	catalog := services.NewCatalogService(productRepo)
	auth := services.NewAuthService(userRepo)

	productController := controllers.NewProductController(catalog)
	authController := controllers.NewAuthController(auth)

	r := router.New()

	// Global middleware stack, outermost first: metrics wraps everything
	// so latency is measured end to end, recovery catches panics before
	// they kill the goroutine, and the request ID must exist before the
	// logger reads it from the context.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))

	// Prometheus scrape endpoint.
	r.Handle("/metrics", metrics.Handler())

	routes.RegisterAPI(r, productController, authController)

	return r
}

// Start loads config, connects the database and serves HTTP until the
// listener fails.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(db).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("stockpile listening", "addr", addr, "env", config.AppEnv())
	return srv.ListenAndServe()
}
