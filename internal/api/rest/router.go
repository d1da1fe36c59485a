package rest

import "github.com/gin-gonic/gin"

// NewRouter настраивает роутер с middleware и endpoints
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Logger())
	router.Use(CORS())

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/brands", h.GetBrands)
		api.GET("/models", h.GetModels)
		api.GET("/parts", h.GetParts)
		api.GET("/parsing-status", h.ParsingStatus)
		api.POST("/estimate", h.EstimatePhoto)
		api.POST("/estimate/detections", h.EstimateDetections)
	}

	return router
}
