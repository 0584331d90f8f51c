package transport

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printforge/designer/internal/transport/middleware"
)

func InitRoutes(h *DesignHandler, timeout time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(timeout))

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api")
	{
		api.GET("/products", h.ListProducts)

		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.CloseSession)
		api.POST("/sessions/:id/switch-side", h.SwitchSide)
		api.GET("/sessions/:id/preview", h.LivePreview)
		api.POST("/sessions/:id/save", h.Save)

		api.POST("/sessions/:id/layers/image", h.AddImageLayer)
		api.POST("/sessions/:id/layers/text", h.AddTextLayer)
		api.PATCH("/sessions/:id/layers/:layerId", h.UpdateLayer)
		api.DELETE("/sessions/:id/layers/:layerId", h.RemoveLayer)
		api.POST("/sessions/:id/layers/:layerId/clone", h.CloneLayer)
		api.POST("/sessions/:id/layers/:layerId/reorder", h.ReorderLayer)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "design-studio",
		})
	})
	return router
}
