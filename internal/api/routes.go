package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"gopenguins/internal"
)

// BasePath is where the versioned API lives. The engine expects full paths,
// so it can be served standalone or mounted under a parent router.
const BasePath = "/api/v1"

// NewRouter builds the gin engine for the JSON API
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(internal.DefaultLogger.WithComponent("HTTP")))

	v1 := router.Group(BasePath)
	{
		v1.GET("/species", h.ListSpecies)
		v1.GET("/features", h.ListFeatures)
		v1.GET("/range", h.GetRange)
		v1.POST("/simulations", h.CreateSimulation)
		v1.POST("/convergence", h.CreateConvergence)
		v1.GET("/etl", h.GetETLReport)
		v1.GET("/stats", h.GetStats)
		v1.GET("/eda", h.GetEDA)
	}
	return router
}

func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
