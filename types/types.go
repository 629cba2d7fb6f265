package types

import "time"

// Schedule is a recurring daily trigger at a wall-clock time ("HH:MM").
// NextRun is set iff the schedule is enabled and always points at the next
// future occurrence of Time as of the last (re)computation.
type Schedule struct {
	ID      string     `json:"id"`
	Time    string     `json:"time"`
	Enabled bool       `json:"enabled"`
	LastRun *time.Time `json:"lastRun,omitempty"`
	NextRun *time.Time `json:"nextRun,omitempty"`
}

// ScheduleUpdate carries a partial schedule mutation. Nil fields are left
// untouched. When Enabled is present it overrides any NextRun handling.
type ScheduleUpdate struct {
	Time    *string `json:"time,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// DueTask identifies a schedule whose next run time has passed.
type DueTask struct {
	ScheduleID string `json:"scheduleId"`
	Time       string `json:"time"`
}

// Trend is a topic record used to seed content generation.
type Trend struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// ContentIdea is the structured output of the ideation step.
type ContentIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Script      string   `json:"script"`
}

// AssetSource distinguishes a primary-path generated asset from the
// degraded placeholder path.
type AssetSource string

const (
	AssetGenerated AssetSource = "generated"
	AssetFallback  AssetSource = "fallback"
)

// Asset is the visual asset produced (or substituted) for a content idea.
type Asset struct {
	URL    string      `json:"url"`
	Source AssetSource `json:"source"`
}

// GenerationResult is the packaged outcome of one pipeline run, handed to
// the uploader. It is never persisted.
type GenerationResult struct {
	VideoURL    string   `json:"videoUrl"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// Session is a server-side record of the OAuth tokens for one connected
// channel, referenced by an opaque id carried in a cookie.
type Session struct {
	ID               string    `json:"id"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// Channel is the subset of YouTube channel data shown on the status endpoint.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Thumbnail       string `json:"thumbnail"`
	SubscriberCount uint64 `json:"subscriberCount"`
}
