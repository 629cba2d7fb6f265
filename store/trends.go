package store

import (
	"sync"

	"trendcast/types"
)

// defaultTrends seeds the registry so the UI is never empty before the
// first refresh.
var defaultTrends = []types.Trend{
	{
		Title:    "AI Technology Breakthroughs",
		Category: "Technology",
		Keywords: []string{"AI", "machine learning", "technology", "innovation"},
	},
	{
		Title:    "Productivity Hacks 2025",
		Category: "Lifestyle",
		Keywords: []string{"productivity", "tips", "life hacks", "efficiency"},
	},
	{
		Title:    "Cryptocurrency Market Analysis",
		Category: "Finance",
		Keywords: []string{"crypto", "bitcoin", "blockchain", "trading"},
	},
	{
		Title:    "Fitness & Wellness Trends",
		Category: "Health",
		Keywords: []string{"fitness", "health", "wellness", "exercise"},
	},
	{
		Title:    "Gaming Industry Updates",
		Category: "Gaming",
		Keywords: []string{"gaming", "esports", "video games", "entertainment"},
	},
}

// TrendStore holds the current trending-topic list. Replacement is wholesale,
// last writer wins.
type TrendStore struct {
	mu     sync.RWMutex
	trends []types.Trend
}

// NewTrendStore creates a registry seeded with the built-in default trends.
func NewTrendStore() *TrendStore {
	trends := make([]types.Trend, len(defaultTrends))
	copy(trends, defaultTrends)
	return &TrendStore{trends: trends}
}

// List returns a snapshot of the current trends.
func (s *TrendStore) List() []types.Trend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Trend, len(s.trends))
	copy(out, s.trends)
	return out
}

// Replace overwrites the trend list wholesale.
func (s *TrendStore) Replace(trends []types.Trend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends = make([]types.Trend, len(trends))
	copy(s.trends, trends)
}
