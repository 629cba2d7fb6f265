package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendcast/config"
)

// RegisterGenerateRoutes registers the generation pipeline endpoint.
func RegisterGenerateRoutes(r *gin.Engine, deps Deps) {
	r.POST("/api/generate-video", handleGenerateVideo(deps))
}

// handleGenerateVideo runs the full pipeline: trend selection, ideation,
// asset generation, upload. The run is detached from the request context so
// a client disconnect does not cancel in-flight external calls; only the
// overall generation budget bounds it.
func handleGenerateVideo(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs := []string{"Starting video generation process..."}

		session, ok := sessionFromRequest(c, deps)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "logs": logs})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.GenerateTimeout)
		defer cancel()

		result, err := deps.Runner.Run(ctx, deps.Auth.Client(ctx, session))
		logs = append(logs, result.Logs...)

		if err != nil {
			log.Printf("Generate video error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "logs": logs})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"videoUrl": result.WatchURL,
			"logs":     logs,
		})
	}
}
