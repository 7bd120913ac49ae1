package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/materials", handler.ListMaterials)
		api.POST("/materials", handler.RegisterPurchase)
		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.RegisterProduct)
		api.GET("/recipes/:productID", handler.GetRecipe)
		api.POST("/recipes", handler.UpsertRecipeLine)
		api.POST("/production/plan", handler.PlanProduction)
		api.POST("/production/commit", handler.CommitProduction)
		api.GET("/sales", handler.ListSales)
		api.POST("/sales", handler.CommitSale)
		api.GET("/dashboard", handler.GetDashboard)
		api.GET("/dashboard/export", handler.ExportDashboard)
		api.POST("/cache/refresh", handler.RefreshCache)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
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
