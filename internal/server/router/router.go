package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/metrics"
	"github.com/mamadbah2/montwater/internal/server/handlers"
)

// Options carries the handlers and cross-cutting pieces the engine is built from.
type Options struct {
	Inventory      *handlers.InventoryHandler
	Auth           *handlers.AuthHandler
	RequireWriter  gin.HandlerFunc
	Metrics        *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// New wires the Gin engine with required routes and middlewares.
func New(opts Options, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	writer := opts.RequireWriter
	if writer == nil {
		writer = func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "writes are disabled"})
		}
	}

	api := r.Group("/api")
	api.POST("/auth/login", opts.Auth.Login)
	api.GET("/catalog", handlers.Catalog)
	api.GET("/schema/:kind", handlers.EditSchema)

	inv := opts.Inventory
	api.GET("/production", inv.ListProduction)
	api.POST("/production", writer, inv.CreateProduction)
	api.PATCH("/production/:id", writer, inv.EditProduction)

	api.GET("/sales", inv.ListSales)
	api.POST("/sales", writer, inv.CreateSale)
	api.PATCH("/sales/:id", writer, inv.EditSale)

	api.GET("/inventory", inv.Inventory)
	api.GET("/inventory/series", inv.Series)
	api.GET("/inventory/:waterType", inv.InventoryByType)

	api.GET("/data/export", writer, inv.Export)
	api.POST("/data/import", writer, inv.Import)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
