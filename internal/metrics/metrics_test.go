package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

type fixedSummaries []models.TypeSummary

func (f fixedSummaries) Summaries() []models.TypeSummary { return f }

func TestStockCollector(t *testing.T) {
	c := NewStockCollector(fixedSummaries{
		{WaterType: models.Water330ml, Stock: 600, Status: models.StockHealthy},
		{WaterType: models.Water500ml, Stock: 20, Status: models.StockLow},
	})

	expected := `
# HELP montwater_stock_packs Packs currently in stock per water type
# TYPE montwater_stock_packs gauge
montwater_stock_packs{water_type="330ml"} 600
montwater_stock_packs{water_type="500ml"} 20
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "montwater_stock_packs"))

	expectedLow := `
# HELP montwater_stock_low 1 when the water type is below the low-stock threshold
# TYPE montwater_stock_low gauge
montwater_stock_low{water_type="330ml"} 0
montwater_stock_low{water_type="500ml"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expectedLow), "montwater_stock_low"))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/ping", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "undefined", "404")))

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err, "registering twice on the same registry must fail")
}
