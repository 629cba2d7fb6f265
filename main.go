package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"trendcast/api"
	"trendcast/auth"
	"trendcast/config"
	"trendcast/services"
	"trendcast/store"
	"trendcast/workflow"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	// Session store: Redis when configured, process memory otherwise.
	var sessions store.SessionStore
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to connect session store to redis: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Printf("Session store: redis (%s)", cfg.RedisAddr)
	} else {
		sessions = store.NewMemorySessionStore()
		log.Printf("Session store: in-memory")
	}

	schedules := store.NewScheduleStore()
	trends := store.NewTrendStore()
	authManager := auth.NewManager(cfg, sessions)

	var chat services.ChatClient
	if cfg.CohereAPIKey != "" {
		chat = services.NewCohereChat(cfg.CohereAPIKey, cfg.CohereModel)
		log.Printf("Text generation: cohere (%s)", cfg.CohereModel)
	} else {
		log.Printf("Text generation: not configured, using local fallbacks")
	}

	var ideas workflow.IdeaGenerator
	if chat != nil {
		ideas = services.NewIdeator(chat)
	}

	var assets workflow.AssetGenerator
	if cfg.ReplicateAPIToken != "" {
		assets = services.NewReplicateClient(cfg.ReplicateAPIToken)
		log.Printf("Asset generation: replicate")
	} else {
		log.Printf("Asset generation: not configured, using placeholder assets")
	}

	youtubeClient := services.NewYouTubeClient()
	runner := workflow.NewRunner(trends, ideas, assets, youtubeClient)
	refresher := services.NewTrendRefresher(chat, cfg.TrendFeedURL, trends)

	deps := api.Deps{
		Config:    cfg,
		Auth:      authManager,
		Schedules: schedules,
		Trends:    trends,
		Refresher: refresher,
		YouTube:   youtubeClient,
		Runner:    runner,
	}

	r := api.NewRouter(deps)

	// Optional in-process poll that surfaces due schedules in the logs. It
	// does not trigger generation; the caller of /api/cron owns that
	// decision.
	if cfg.CronSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.CronSchedule, func() {
			for _, task := range schedules.ListDue(time.Now()) {
				log.Printf("Cron: schedule %s (%s) is due", task.ScheduleID, task.Time)
			}
		}); err != nil {
			log.Fatalf("failed to add cron job: %v", err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("Due-task poll running on schedule %q", cfg.CronSchedule)
	}

	addr := ":" + cfg.Port
	log.Printf("🤖 Starting trendcast API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /api/health")
	log.Println("  GET    /api/auth/login")
	log.Println("  GET    /api/auth/callback")
	log.Println("  GET    /api/auth/status")
	log.Println("  GET    /api/schedules")
	log.Println("  POST   /api/schedules")
	log.Println("  PUT    /api/schedules/:id")
	log.Println("  DELETE /api/schedules/:id")
	log.Println("  GET    /api/trends")
	log.Println("  POST   /api/trends/refresh")
	log.Println("  POST   /api/generate-video")
	log.Println("  GET    /api/cron")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
