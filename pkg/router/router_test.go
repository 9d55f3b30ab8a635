package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/stockpile/pkg/router"
)

func TestGroupPathsAndNames(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products/{id}", "products.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	path, ok := r.Path("products.show")
	if !ok {
		t.Fatal("expected named route to be registered")
	}
	if path != "/api/products/{id}" {
		t.Errorf("unexpected path: %s", path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/7", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected handler to be mounted under the group prefix, got %d", rec.Code)
	}
}

func TestURLSubstitutesParams(t *testing.T) {
	r := router.New()
	r.Put("/api/restock/update/{id}", "restock.override", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("restock.override", map[string]string{"id": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/api/restock/update/42" {
		t.Errorf("unexpected url: %s", url)
	}

	if _, err := r.URL("restock.override", nil); err == nil {
		t.Error("expected error for missing params")
	}

	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}
