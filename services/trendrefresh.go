package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendcast/rssfeeds"
	"trendcast/store"
	"trendcast/types"
)

const trendPreamble = "You are a YouTube trends analyzer. Generate current trending video topics with categories and keywords. Respond with JSON and nothing else."

// TrendRefresher regenerates the trend registry from an RSS feed and/or the
// chat capability. Every failure path keeps the existing list; a refresh
// never surfaces an error to the caller.
type TrendRefresher struct {
	chat    ChatClient // nil when no text-generation capability is configured
	feedURL string
	trends  *store.TrendStore
}

// NewTrendRefresher wires the refresher. chat may be nil; feedURL may be
// empty. With neither configured, Refresh is a no-op returning the stored
// list.
func NewTrendRefresher(chat ChatClient, feedURL string, trends *store.TrendStore) *TrendRefresher {
	return &TrendRefresher{chat: chat, feedURL: rssfeeds.ResolveFeedURL(feedURL), trends: trends}
}

// Refresh attempts to regenerate the trend list and returns the registry's
// current contents afterwards.
func (r *TrendRefresher) Refresh(ctx context.Context) []types.Trend {
	fresh, err := r.regenerate(ctx)
	if err != nil {
		log.Printf("Trend refresh failed, keeping existing trends: %v", err)
		return r.trends.List()
	}
	if len(fresh) == 0 {
		return r.trends.List()
	}

	r.trends.Replace(fresh)
	return r.trends.List()
}

func (r *TrendRefresher) regenerate(ctx context.Context) ([]types.Trend, error) {
	if r.feedURL != "" {
		return r.fromFeed(ctx)
	}
	if r.chat != nil {
		return r.fromChat(ctx)
	}
	// Nothing configured; the seeded defaults stand.
	return nil, nil
}

// fromFeed sources trends from RSS articles, distilled by the model when one
// is configured and derived locally otherwise.
func (r *TrendRefresher) fromFeed(ctx context.Context) ([]types.Trend, error) {
	articles, err := rssfeeds.FetchFeed(r.feedURL, rssfeeds.DefaultCount)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("feed %s returned no items", r.feedURL)
	}

	rssfeeds.ExtractAllContent(articles)

	if r.chat == nil {
		return rssfeeds.DeriveTrends(articles), nil
	}

	var headlines strings.Builder
	for _, article := range articles {
		if article.ExtractionError != "" {
			continue
		}
		fmt.Fprintf(&headlines, "- %s", article.Title)
		if article.Excerpt != "" {
			fmt.Fprintf(&headlines, ": %s", article.Excerpt)
		}
		headlines.WriteString("\n")
	}

	prompt := fmt.Sprintf(
		"Here are today's news headlines:\n%s\n"+
			"Distill them into 5 trending YouTube video topics. "+
			`Respond as a JSON array of objects with fields "title", "category", "keywords" (array of 4-5 strings).`,
		headlines.String(),
	)
	return r.askModel(ctx, prompt)
}

// fromChat asks the model for trending topics with no feed grounding, the
// original refresh behavior.
func (r *TrendRefresher) fromChat(ctx context.Context) ([]types.Trend, error) {
	prompt := "Give me 5 trending YouTube video topics right now. " +
		`Respond as a JSON array of objects with fields "title", "category", "keywords" (array of 4-5 strings).`
	return r.askModel(ctx, prompt)
}

func (r *TrendRefresher) askModel(ctx context.Context, prompt string) ([]types.Trend, error) {
	text, err := r.chat.Generate(ctx, trendPreamble, prompt)
	if err != nil {
		return nil, err
	}

	payload := extractJSON(text)

	var trends []types.Trend
	if err := json.Unmarshal([]byte(payload), &trends); err == nil {
		return validTrends(trends), nil
	}

	// Some models wrap the array in an object like {"trends": [...]}.
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
		return nil, fmt.Errorf("parse trends response: %w", err)
	}
	for _, raw := range wrapped {
		if err := json.Unmarshal(raw, &trends); err == nil && len(trends) > 0 {
			return validTrends(trends), nil
		}
	}
	return nil, fmt.Errorf("trends response contained no trend array")
}

func validTrends(trends []types.Trend) []types.Trend {
	valid := trends[:0]
	for _, trend := range trends {
		if trend.Title != "" {
			valid = append(valid, trend)
		}
	}
	return valid
}
