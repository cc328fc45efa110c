//go:build integration

package router_test

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"barstock/internal/config"
	"barstock/internal/infra"
	"barstock/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("barstock_test"),
		tcPostgres.WithUsername("barstock"),
		tcPostgres.WithPassword("barstock"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		LowStockThreshold:  5,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("barstock2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, name, password_hash, role, active, created_at)
		VALUES (gen_random_uuid(), 'admin@e2e.test', 'Admin E2E', ?, 'admin', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "barstock2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createIngredient(t *testing.T, env *testEnv, name string, strength, unitVol float64, qty int, price float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/ingredients",
		jsonBody(t, map[string]any{
			"name": name, "strength_pct": strength, "unit_volume_ml": unitVol,
			"quantity": qty, "unit_price": price,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &body)
	return body.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	vodkaID := createIngredient(t, env, "Vodka", 40, 700, 10, 18)
	juiceID := createIngredient(t, env, "Orange Juice", 0, 1000, 10, 3)

	// Create cocktail
	ckResp := do(t, env.server, "POST", "/v1/cocktails",
		jsonBody(t, map[string]any{
			"name":  "Screwdriver",
			"price": 7.5,
			"lines": []map[string]any{
				{"ingredient_id": vodkaID, "volume_ml": 100},
				{"ingredient_id": juiceID, "volume_ml": 50},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ckResp.StatusCode)
	var cocktail struct {
		ID                 string  `json:"id"`
		BlendedStrengthPct float64 `json:"blended_strength_pct"`
		TotalVolumeML      float64 `json:"total_volume_ml"`
	}
	decodeJSON(t, ckResp, &cocktail)
	assert.InDelta(t, 26.6667, cocktail.BlendedStrengthPct, 0.001)
	assert.InDelta(t, 150, cocktail.TotalVolumeML, 0.001)

	// Availability
	availResp := do(t, env.server, "GET", "/v1/cocktails/"+cocktail.ID+"/availability", nil, env.token)
	require.Equal(t, http.StatusOK, availResp.StatusCode)
	var avail struct {
		Available bool `json:"available"`
	}
	decodeJSON(t, availResp, &avail)
	assert.True(t, avail.Available)

	// Sell it
	saleResp := do(t, env.server, "POST", "/v1/sales/cocktail",
		jsonBody(t, map[string]any{"cocktail_id": cocktail.ID}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		Kind       string `json:"kind"`
		TotalPrice string `json:"total_price"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "cocktail", sale.Kind)
	assert.Equal(t, "7.5", sale.TotalPrice)

	// Vodka unit count dropped by ceil(100/700) = 1
	ingResp := do(t, env.server, "GET", "/v1/ingredients/"+vodkaID, nil, env.token)
	require.Equal(t, http.StatusOK, ingResp.StatusCode)
	var ing struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, ingResp, &ing)
	assert.Equal(t, 9, ing.Quantity)

	// Sales list has exactly one entry, name resolved
	listResp := do(t, env.server, "GET", "/v1/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var sales []struct {
		Item string `json:"item"`
	}
	decodeJSON(t, listResp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, "Screwdriver", sales[0].Item)
}

func TestE2E_DuplicateIngredientName(t *testing.T) {
	env := setupTestEnv(t)
	createIngredient(t, env, "Gin", 43, 700, 5, 20)

	resp := do(t, env.server, "POST", "/v1/ingredients",
		jsonBody(t, map[string]any{
			"name": "Gin", "strength_pct": 38, "unit_volume_ml": 500,
			"quantity": 99, "unit_price": 10,
		}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Ledger unchanged
	listResp := do(t, env.server, "GET", "/v1/ingredients", nil, env.token)
	var list []struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, listResp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Quantity)
}

func TestE2E_OverSellRejectedAtomically(t *testing.T) {
	env := setupTestEnv(t)
	beerID := createIngredient(t, env, "Lager", 5, 330, 2, 3)

	resp := do(t, env.server, "POST", "/v1/sales/ingredient",
		jsonBody(t, map[string]any{"ingredient_id": beerID, "quantity": 5}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Stock intact, no sale row
	ingResp := do(t, env.server, "GET", "/v1/ingredients/"+beerID, nil, env.token)
	var ing struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, ingResp, &ing)
	assert.Equal(t, 2, ing.Quantity)

	listResp := do(t, env.server, "GET", "/v1/sales", nil, env.token)
	var sales []any
	decodeJSON(t, listResp, &sales)
	assert.Empty(t, sales)
}

func TestE2E_RestockFlipsAvailability(t *testing.T) {
	env := setupTestEnv(t)
	rumID := createIngredient(t, env, "Rum", 38, 700, 0, 15)

	ckResp := do(t, env.server, "POST", "/v1/cocktails",
		jsonBody(t, map[string]any{
			"name":  "Daiquiri",
			"price": 8,
			"lines": []map[string]any{{"ingredient_id": rumID, "volume_ml": 60}},
		}), env.token)
	require.Equal(t, http.StatusCreated, ckResp.StatusCode)
	var cocktail struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ckResp, &cocktail)

	var avail struct {
		Available bool   `json:"available"`
		Reason    string `json:"reason"`
	}
	availResp := do(t, env.server, "GET", "/v1/cocktails/"+cocktail.ID+"/availability", nil, env.token)
	decodeJSON(t, availResp, &avail)
	assert.False(t, avail.Available)
	assert.Equal(t, "out of stock for Rum", avail.Reason)

	restockResp := do(t, env.server, "POST", "/v1/ingredients/"+rumID+"/restock",
		jsonBody(t, map[string]any{"quantity": 6}), env.token)
	require.Equal(t, http.StatusOK, restockResp.StatusCode)

	availResp = do(t, env.server, "GET", "/v1/cocktails/"+cocktail.ID+"/availability", nil, env.token)
	decodeJSON(t, availResp, &avail)
	assert.True(t, avail.Available)
}

func TestE2E_PublicPriceLookup(t *testing.T) {
	env := setupTestEnv(t)
	createIngredient(t, env, "Tonic", 0, 200, 30, 2.5)

	// No token needed
	resp := do(t, env.server, "GET", "/v1/price/Tonic", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var price struct {
		Name      string `json:"name"`
		UnitPrice string `json:"unit_price"`
	}
	decodeJSON(t, resp, &price)
	assert.Equal(t, "Tonic", price.Name)
	assert.Equal(t, "2.5", price.UnitPrice)

	// Second hit comes from the Redis cache and must agree
	resp = do(t, env.server, "GET", "/v1/price/Tonic", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &price)
	assert.Equal(t, "2.5", price.UnitPrice)
}
