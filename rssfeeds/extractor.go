package rssfeeds

import (
	"fmt"
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	workerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractAllContent fetches and extracts readable text for all articles
// using a small worker pool. Extraction failures are recorded on the
// article, not returned; trend derivation skips failed articles.
func ExtractAllContent(articles []*Article) {
	var wg sync.WaitGroup
	articleChan := make(chan *Article, len(articles))

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extractContent(article); err != nil {
					article.ExtractionError = err.Error()
					log.Printf("[Worker %d] Failed to extract %s: %v", workerID, article.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

func extractContent(article *Article) error {
	if article.URL == "" {
		return fmt.Errorf("article URL is empty")
	}

	extracted, err := readability.FromURL(article.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	article.FullContentText = extracted.TextContent
	article.Excerpt = extracted.Excerpt
	return nil
}
