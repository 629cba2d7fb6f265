package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterTrendRoutes registers the trend registry endpoints.
func RegisterTrendRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/trends")
	g.GET("", handleListTrends(deps))
	g.POST("/refresh", handleRefreshTrends(deps))
}

func handleListTrends(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"trends": deps.Trends.List()})
	}
}

// handleRefreshTrends regenerates the trend list. Failures fall back to the
// stored list, so this always answers 200 with whatever trends stand.
func handleRefreshTrends(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		trends := deps.Refresher.Refresh(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"trends": trends})
	}
}
