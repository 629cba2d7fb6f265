package workflow

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"trendcast/types"
)

// TrendSource supplies the current trend snapshot for step one.
type TrendSource interface {
	List() []types.Trend
}

// IdeaGenerator turns a trend into a structured content idea. A nil
// generator means no text-generation capability is configured; the runner
// synthesizes a templated idea locally instead.
type IdeaGenerator interface {
	GenerateIdea(ctx context.Context, trend types.Trend) (types.ContentIdea, error)
}

// AssetGenerator renders a visual asset for an idea title. Failures are
// absorbed by the runner's fallback; they never abort a run.
type AssetGenerator interface {
	GenerateImage(ctx context.Context, title string) (string, error)
}

// Uploader publishes a finished result through an authenticated client and
// returns the public watch URL.
type Uploader interface {
	Upload(ctx context.Context, client *http.Client, data types.GenerationResult) (string, error)
}

// Runner executes one generation pipeline end to end: select a trend,
// ideate, materialize an asset, upload. There is no retry and no
// resumability; a failed run is simply re-invoked from the top.
type Runner struct {
	trends   TrendSource
	ideas    IdeaGenerator // nil -> local fallback ideation
	assets   AssetGenerator
	uploader Uploader

	intn func(int) int
	now  func() time.Time
}

// NewRunner wires the pipeline. ideas and assets may be nil; the run then
// degrades to the local ideation template and the placeholder asset.
func NewRunner(trends TrendSource, ideas IdeaGenerator, assets AssetGenerator, uploader Uploader) *Runner {
	return &Runner{
		trends:   trends,
		ideas:    ideas,
		assets:   assets,
		uploader: uploader,
		intn:     rand.Intn,
		now:      time.Now,
	}
}

// Result is the outcome of one pipeline run. Logs is the ordered
// human-readable audit trail, returned to the caller verbatim even on
// failure.
type Result struct {
	WatchURL    string
	AssetSource types.AssetSource
	Logs        []string
}

// Run executes the pipeline with the given authenticated upload client.
// On error the returned Result still carries every log line accumulated up
// to the failure.
func (r *Runner) Run(ctx context.Context, client *http.Client) (Result, error) {
	result := Result{}
	logf := func(format string, args ...any) {
		result.Logs = append(result.Logs, fmt.Sprintf(format, args...))
	}

	logf("Starting video generation...")

	trends := r.trends.List()
	if len(trends) == 0 {
		logf("Error: no trends available")
		return result, fmt.Errorf("no trends available")
	}
	trend := trends[r.intn(len(trends))]
	logf("Selected trend: %s", trend.Title)

	logf("Generating video content with AI...")
	idea, err := r.ideate(ctx, trend)
	if err != nil {
		logf("Error: %v", err)
		return result, err
	}
	logf("Content idea: %s", idea.Title)

	logf("Generating video content...")
	asset := r.materialize(ctx, idea, logf)
	result.AssetSource = asset.Source
	logf("Video generated successfully!")

	data := types.GenerationResult{
		VideoURL:    asset.URL,
		Title:       idea.Title,
		Description: idea.Description,
		Tags:        idea.Tags,
	}

	logf("Preparing to upload to YouTube...")
	watchURL, err := r.uploader.Upload(ctx, client, data)
	if err != nil {
		logf("Upload failed: %v", err)
		return result, err
	}

	result.WatchURL = watchURL
	logf("Success! Video available at: %s", watchURL)
	return result, nil
}

// ideate asks the configured generator for an idea, or synthesizes a
// deterministic one from the trend itself so the pipeline never blocks on
// missing configuration.
func (r *Runner) ideate(ctx context.Context, trend types.Trend) (types.ContentIdea, error) {
	if r.ideas == nil {
		return localIdea(trend), nil
	}
	return r.ideas.GenerateIdea(ctx, trend)
}

// materialize produces the visual asset, degrading silently to the
// placeholder on any failure. The two-variant Source field tells callers
// which path was taken.
func (r *Runner) materialize(ctx context.Context, idea types.ContentIdea, logf func(string, ...any)) types.Asset {
	if r.assets != nil {
		logf("Using AI to generate video scenes...")
		url, err := r.assets.GenerateImage(ctx, idea.Title)
		if err == nil && url != "" {
			logf("AI-generated thumbnail created!")
			return types.Asset{URL: url, Source: types.AssetGenerated}
		}
	}

	logf("Using placeholder video (AI generation unavailable)")
	return types.Asset{
		URL:    fmt.Sprintf("https://example.com/videos/demo-%d.mp4", r.now().UnixMilli()),
		Source: types.AssetFallback,
	}
}

// localIdea is the no-AI ideation template, built purely from the trend.
func localIdea(trend types.Trend) types.ContentIdea {
	return types.ContentIdea{
		Title: fmt.Sprintf("%s - What You Need to Know!", trend.Title),
		Description: fmt.Sprintf(
			"Exploring the latest trends in %s. In this video, we dive deep into %s and share insights you won't want to miss!",
			trend.Category, trend.Title,
		),
		Tags:   append([]string{}, trend.Keywords...),
		Script: fmt.Sprintf("Welcome back! Today we're talking about %s...", trend.Title),
	}
}
