package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/internal/server"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
)

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	ts := httptest.NewServer(server.NewRouter(db).Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

type apiEnvelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env apiEnvelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)

	// Create: 12 of 100 is below the 20% threshold.
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]interface{}{
		"name":               "Mouse",
		"price":              "29.99",
		"total_quantity":     100,
		"available_quantity": 12,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, env.Data["need_restock"])
	assert.Equal(t, "29.99", env.Data["price"], "price serialises as a string")

	id := uint(env.Data["id"].(float64))

	// Show
	resp, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", ts.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mouse", env.Data["name"])

	// Restock list is reachable.
	listResp, err := http.Get(ts.URL + "/api/restock/list")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	// Delete: 204 with empty body, then 404.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", ts.URL, id), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", ts.URL, id), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBuyUntilOutOfStock(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]interface{}{
		"name":               "Hub",
		"price":              "25.00",
		"total_quantity":     10,
		"available_quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := uint(env.Data["id"].(float64))

	buyURL := fmt.Sprintf("%s/api/products/%d/buy", ts.URL, id)

	resp, env = doJSON(t, http.MethodPost, buyURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), env.Data["available_quantity"])

	resp, env = doJSON(t, http.MethodPost, buyURL, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Product out of stock", env.Message)
}

func TestCreateDuplicateNameConflict(t *testing.T) {
	ts, _ := newTestServer(t)

	body := map[string]interface{}{
		"name": "Desk", "price": "320.00",
		"total_quantity": 10, "available_quantity": 10,
	}
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/products", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateValidationReturns400WithFieldMap(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]interface{}{
		"name": "", "price": "-1",
		"total_quantity": -1, "available_quantity": -1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "price")
}

func TestRestockOverrideEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]interface{}{
		"name": "Mat", "price": "12.00",
		"total_quantity": 10, "available_quantity": 8,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, false, env.Data["need_restock"])
	id := uint(env.Data["id"].(float64))

	overrideURL := fmt.Sprintf("%s/api/restock/update/%d", ts.URL, id)

	// Missing field → field-level 400.
	resp, env = doJSON(t, http.MethodPut, overrideURL, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Errors, "need_restock")

	// Set the flag against the policy.
	resp, env = doJSON(t, http.MethodPut, overrideURL, map[string]interface{}{"need_restock": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, env.Data["need_restock"])
}

func TestLoginGenericErrorForBothFailureModes(t *testing.T) {
	ts, db := newTestServer(t)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, repositories.NewUserRepository(db).SetPassword("admin", hash))

	loginURL := ts.URL + "/api/auth/login"

	resp, wrongPass := doJSON(t, http.MethodPost, loginURL, map[string]interface{}{
		"username": "admin", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, unknownUser := doJSON(t, http.MethodPost, loginURL, map[string]interface{}{
		"username": "nouser", "password": "x",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, wrongPass.Message, unknownUser.Message,
		"login failures must be indistinguishable")

	// Correct credentials return id and username, nothing else.
	resp, env := doJSON(t, http.MethodPost, loginURL, map[string]interface{}{
		"username": "admin", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", env.Data["username"])
	assert.NotContains(t, env.Data, "password")
}
