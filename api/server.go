package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendcast/auth"
	"trendcast/config"
	"trendcast/services"
	"trendcast/store"
	"trendcast/types"
	"trendcast/workflow"
)

// ChannelSource is the slice of the YouTube surface the controllers need.
// The concrete API client satisfies it; tests substitute a fake.
type ChannelSource interface {
	ChannelInfo(ctx context.Context, client *http.Client) (types.Channel, error)
}

// Deps carries the injected dependencies shared by the controllers. Keeping
// the registries here (rather than package globals) gives each test its own
// isolated state.
type Deps struct {
	Config    config.Config
	Auth      *auth.Manager
	Schedules *store.ScheduleStore
	Trends    *store.TrendStore
	Refresher *services.TrendRefresher
	YouTube   ChannelSource
	Runner    *workflow.Runner
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterAuthRoutes(r, deps)
	RegisterScheduleRoutes(r, deps)
	RegisterTrendRoutes(r, deps)
	RegisterGenerateRoutes(r, deps)
	RegisterCronRoutes(r, deps)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", handleHealth)
}

func handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
