package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kalastra-backend/internal/pipelines/ailisting"
	"kalastra-backend/internal/pipelines/manuallisting"
	"kalastra-backend/internal/products"
)

type RouterOptions struct {
	Logger         *zap.Logger
	AIListing      *ailisting.Handler
	ManualListing  *manuallisting.Handler
	Products       *products.Handler
	HealthCheckers map[string]func() error
}

// NewRouter wires the HTTP surface: the two listing pipelines, the catalog
// read side, health and metrics.
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(opts.Logger), Recovery(opts.Logger))

	router.GET("/healthz", healthHandler(opts.HealthCheckers))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", opts.Products.List)
		api.GET("/products/search", opts.Products.Search)
		api.GET("/products/:id", opts.Products.Get)
		api.POST("/products/manual", opts.ManualListing.Create)
		api.POST("/products/ai-generate-listing", opts.AIListing.Generate)
	}

	return router
}

func healthHandler(checkers map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := map[string]string{}
		for name, check := range checkers {
			if err := check(); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				deps[name] = "ok"
			}
		}

		body := gin.H{"status": "healthy"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		c.JSON(status, body)
	}
}
