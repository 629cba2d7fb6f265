package config

import (
	"os"
	"strings"
	"time"
)

// Default configuration values
const (
	DefaultPort        = "8080"
	DefaultRedirectURI = "http://localhost:8080/api/auth/callback"
	DefaultCohereModel = "command-r-08-2024"

	// SessionCookie names the cookie carrying the opaque session id.
	SessionCookie = "trendcast_session"

	// Token lifetimes mirror the upstream OAuth grant: access tokens are
	// treated as good for ~30 days, refresh tokens for ~1 year.
	AccessTokenTTL  = 30 * 24 * time.Hour
	RefreshTokenTTL = 365 * 24 * time.Hour

	// GenerateTimeout is the overall budget for one generation+upload run.
	GenerateTimeout = 5 * time.Minute
)

// Config collects all environment-driven settings for the service.
type Config struct {
	Port string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	CohereAPIKey string
	CohereModel  string

	ReplicateAPIToken string

	// TrendFeedURL, when set, points trend refresh at an RSS/Atom feed.
	TrendFeedURL string

	// RedisAddr, when set, backs the session store with Redis.
	RedisAddr     string
	RedisPassword string

	// CronSchedule enables the in-process due-task poll when non-empty.
	CronSchedule string

	// SecureCookies marks session cookies Secure (production deployments).
	SecureCookies bool
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:               getEnvOrDefault("PORT", DefaultPort),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getEnvOrDefault("GOOGLE_REDIRECT_URI", DefaultRedirectURI),
		CohereAPIKey:       os.Getenv("COHERE_API_KEY"),
		CohereModel:        getEnvOrDefault("COHERE_MODEL", DefaultCohereModel),
		ReplicateAPIToken:  os.Getenv("REPLICATE_API_TOKEN"),
		TrendFeedURL:       strings.TrimSpace(os.Getenv("TREND_FEED_URL")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CronSchedule:       strings.TrimSpace(os.Getenv("CRON_SCHEDULE")),
		SecureCookies:      strings.EqualFold(os.Getenv("ENV"), "production"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
