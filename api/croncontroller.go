package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trendcast/types"
)

// RegisterCronRoutes registers the due-task computation endpoint, meant to
// be hit by an external periodic trigger.
func RegisterCronRoutes(r *gin.Engine, deps Deps) {
	r.GET("/api/cron", handleCron(deps))
}

// handleCron computes and advances due schedules as of now. It reports the
// due tasks but deliberately does not invoke generation for them; that
// wiring is left to whatever calls this endpoint.
func handleCron(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		due := deps.Schedules.ListDue(time.Now())
		if due == nil {
			due = []types.DueTask{}
		}

		message := "No tasks due"
		if len(due) > 0 {
			message = fmt.Sprintf("%d task(s) due", len(due))
		}

		c.JSON(http.StatusOK, gin.H{"message": message, "tasks": due})
	}
}
