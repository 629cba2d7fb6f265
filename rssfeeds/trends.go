package rssfeeds

import (
	"strings"

	"trendcast/types"
)

const maxDerivedTrends = 5

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "how": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "what": {}, "why": {},
	"will": {}, "with": {},
}

// DeriveTrends builds trend records directly from feed articles. This is the
// no-AI path: titles become trend titles, feed categories become the
// category, and keywords come from categories plus prominent title words.
func DeriveTrends(articles []*Article) []types.Trend {
	trends := make([]types.Trend, 0, maxDerivedTrends)

	for _, article := range articles {
		if article.Title == "" || article.ExtractionError != "" {
			continue
		}

		category := "News"
		if len(article.Categories) > 0 && article.Categories[0] != "" {
			category = article.Categories[0]
		}

		trends = append(trends, types.Trend{
			Title:    article.Title,
			Category: category,
			Keywords: deriveKeywords(article),
		})

		if len(trends) == maxDerivedTrends {
			break
		}
	}

	return trends
}

func deriveKeywords(article *Article) []string {
	const maxKeywords = 5

	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})

	add := func(word string) {
		word = strings.ToLower(strings.Trim(word, ".,:;!?\"'()[]"))
		if len(word) < 3 {
			return
		}
		if _, skip := stopwords[word]; skip {
			return
		}
		if _, dup := seen[word]; dup {
			return
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	for _, category := range article.Categories {
		if len(keywords) >= maxKeywords {
			break
		}
		add(category)
	}
	for _, word := range strings.Fields(article.Title) {
		if len(keywords) >= maxKeywords {
			break
		}
		add(word)
	}

	return keywords
}
