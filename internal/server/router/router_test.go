package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/montwater/internal/auth"
	"github.com/mamadbah2/montwater/internal/domain/models"
	core "github.com/mamadbah2/montwater/internal/inventory"
	"github.com/mamadbah2/montwater/internal/metrics"
	"github.com/mamadbah2/montwater/internal/repository/sqlite"
	"github.com/mamadbah2/montwater/internal/server/handlers"
	"github.com/mamadbah2/montwater/internal/server/middleware"
	service "github.com/mamadbah2/montwater/internal/service/inventory"
)

type testAPI struct {
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	repo, err := sqlite.New(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	store, err := core.NewStore(context.Background(), repo, core.DefaultStorageKey, logger)
	require.NoError(t, err)
	svc := service.NewService(store, time.UTC, logger)

	authn, err := auth.NewAuthenticator("pw", "key", time.Hour)
	require.NoError(t, err)
	token, _, err := authn.Login("pw")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	httpMetrics, err := metrics.NewHTTPMetrics(reg)
	require.NoError(t, err)
	require.NoError(t, reg.Register(metrics.NewStockCollector(svc)))

	engine := New(Options{
		Inventory:     handlers.NewInventoryHandler(svc, logger),
		Auth:          handlers.NewAuthHandler(authn, logger),
		RequireWriter: middleware.RequireWriter(authn, logger),
		Metrics:       httpMetrics,
		Gatherer:      reg,
	}, logger)

	return &testAPI{engine: engine, token: token}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func TestAPI_SaleLifecycle(t *testing.T) {
	api := newTestAPI(t)

	// GIVEN 1000 packs of 330ml produced
	w := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": today(), "quantity": 1000, "batchId": "B1", "waterType": "330ml",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// WHEN a sale of 400 is recorded
	w = api.do(t, http.MethodPost, "/api/sales", map[string]any{
		"date": today(), "quantity": "400", "waterType": "330ml",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[models.SalesEntry](t, w)

	// THEN the stock is 600 and the customer is defaulted
	assert.Equal(t, models.DefaultCustomer, sale.Customer)
	summary := decode[models.TypeSummary](t, api.do(t, http.MethodGet, "/api/inventory/330ml", nil, false))
	assert.Equal(t, 600, summary.Stock)
	assert.Equal(t, 12000, summary.Bottles)

	// WHEN the sale grows beyond the stock THEN it is rejected with the available amount
	w = api.do(t, http.MethodPatch, "/api/sales/"+sale.ID, map[string]any{"quantity": 1200}, true)
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decode[map[string]any](t, w)
	assert.EqualValues(t, 600, conflict["available"])

	// WHEN the sale is reduced THEN the stock grows back
	w = api.do(t, http.MethodPatch, "/api/sales/"+sale.ID, map[string]any{"quantity": 10}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary = decode[models.TypeSummary](t, api.do(t, http.MethodGet, "/api/inventory/330ml", nil, false))
	assert.Equal(t, 990, summary.Stock)
}

func TestAPI_ValidationErrors(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"zero quantity", http.MethodPost, "/api/production", map[string]any{"date": today(), "quantity": 0, "batchId": "B", "waterType": "330ml"}, http.StatusBadRequest},
		{"missing batch", http.MethodPost, "/api/production", map[string]any{"date": today(), "quantity": 5, "waterType": "330ml"}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/production", map[string]any{"date": "07/01/2024", "quantity": 5, "batchId": "B", "waterType": "330ml"}, http.StatusBadRequest},
		{"unknown type", http.MethodPost, "/api/production", map[string]any{"date": today(), "quantity": 5, "batchId": "B", "waterType": "2Ltr"}, http.StatusBadRequest},
		{"oversell", http.MethodPost, "/api/sales", map[string]any{"date": today(), "quantity": 1, "waterType": "500ml"}, http.StatusConflict},
		{"broken json", http.MethodPost, "/api/sales", "{", http.StatusBadRequest},
		{"edit missing id", http.MethodPatch, "/api/sales/nope", map[string]any{"quantity": 1}, http.StatusNotFound},
		{"unknown stock type", http.MethodGet, "/api/inventory/2Ltr", nil, http.StatusBadRequest},
		{"bad series window", http.MethodGet, "/api/inventory/series?days=-1", nil, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, tc.method, tc.path, tc.body, true)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestAPI_WritesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": today(), "quantity": 5, "batchId": "B", "waterType": "330ml",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/data/export", nil, false).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/production", nil, false).Code)
}

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "pw"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "admin", body["role"])
	assert.NotEmpty(t, body["token"])
}

func TestAPI_ExportImportRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": today(), "quantity": 700, "batchId": "B1", "waterType": "1Ltr",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	export := api.do(t, http.MethodGet, "/api/data/export", nil, true)
	require.Equal(t, http.StatusOK, export.Code)
	assert.Contains(t, export.Header().Get("Content-Disposition"), "montwater-inventory-")
	exported := export.Body.String()

	w = api.do(t, http.MethodPost, "/api/data/import", `{"production": {}, "sales": []}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/data/import", `{"production": [], "sales": []}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	inv := decode[map[string]any](t, api.do(t, http.MethodGet, "/api/inventory", nil, false))
	assert.EqualValues(t, 0, inv["totalStock"])

	w = api.do(t, http.MethodPost, "/api/data/import", exported, true)
	require.Equal(t, http.StatusOK, w.Code)
	inv = decode[map[string]any](t, api.do(t, http.MethodGet, "/api/inventory", nil, false))
	assert.EqualValues(t, 700, inv["totalStock"])
}

func TestAPI_SeriesCatalogSchemaAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": today(), "quantity": 40, "batchId": "B1", "waterType": "500ml",
	}, true)

	series := decode[[]models.DayActivity](t, api.do(t, http.MethodGet, "/api/inventory/series", nil, false))
	require.Len(t, series, service.DefaultSeriesDays)
	assert.Equal(t, 40, series[len(series)-1].Total.Produced)

	catalog := decode[map[string]any](t, api.do(t, http.MethodGet, "/api/catalog", nil, false))
	assert.Len(t, catalog["types"], 3)

	schema := decode[[]models.FieldDescriptor](t, api.do(t, http.MethodGet, "/api/schema/sales", nil, false))
	assert.Len(t, schema, 3)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/schema/other", nil, false).Code)

	w := api.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `montwater_stock_packs{water_type="500ml"} 40`))
	assert.Contains(t, w.Body.String(), "http_requests_total")

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/healthz", nil, false).Code)
}
