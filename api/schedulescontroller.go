package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendcast/types"
)

// RegisterScheduleRoutes registers the schedule registry endpoints.
func RegisterScheduleRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/schedules")
	g.GET("", handleListSchedules(deps))
	g.POST("", handleAddSchedule(deps))
	g.PUT("/:id", handleUpdateSchedule(deps))
	g.DELETE("/:id", handleDeleteSchedule(deps))
}

// AddScheduleRequest is the body of POST /api/schedules.
type AddScheduleRequest struct {
	Time string `json:"time"`
}

func handleListSchedules(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"schedules": deps.Schedules.List()})
	}
}

func handleAddSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Time == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Time is required"})
			return
		}

		schedule := deps.Schedules.Add(req.Time)
		c.JSON(http.StatusOK, gin.H{
			"schedules": deps.Schedules.List(),
			"schedule":  schedule,
		})
	}
}

func handleUpdateSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates types.ScheduleUpdate
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		schedule, ok := deps.Schedules.Update(c.Param("id"), updates)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"schedules": deps.Schedules.List(),
			"schedule":  schedule,
		})
	}
}

func handleDeleteSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !deps.Schedules.Delete(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"schedules": deps.Schedules.List()})
	}
}
