package rssfeeds

import (
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultCount is how many feed items a trend refresh considers.
const DefaultCount = 10

// FeedPresets maps friendly names to RSS feed URLs usable as trend sources.
var FeedPresets = map[string]string{
	"cna": "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml",
	"st":  "https://www.straitstimes.com/news/singapore/rss.xml",
	"hn":  "https://hnrss.org/newest",
	"tr":  "https://www.technologyreview.com/feed/",
}

// ResolveFeedURL resolves a preset name to its URL, or returns the input
// unchanged when it is already a URL.
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}

// Article is one feed item considered as trend-source material.
type Article struct {
	Title           string
	URL             string
	PublishedAt     time.Time
	Summary         string
	Categories      []string
	FullContentText string
	Excerpt         string
	ExtractionError string
}

// FetchFeed retrieves and parses an RSS/Atom feed, returning at most
// maxCount article records.
func FetchFeed(feedURL string, maxCount int) ([]*Article, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := min(len(feed.Items), maxCount)
	articles := make([]*Article, 0, count)

	for i := 0; i < count; i++ {
		item := feed.Items[i]

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		categories := make([]string, len(item.Categories))
		copy(categories, item.Categories)

		articles = append(articles, &Article{
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
			Summary:     summary,
			Categories:  categories,
		})
	}

	return articles, nil
}
