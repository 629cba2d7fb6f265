package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trendcast/types"
)

const ideationPreamble = "You are a YouTube content creator. Create engaging video ideas based on trends. Respond with a single JSON object and nothing else."

// Ideator turns a trend into a structured content idea using the chat
// capability.
type Ideator struct {
	chat ChatClient
}

// NewIdeator wraps a chat client for content ideation.
func NewIdeator(chat ChatClient) *Ideator {
	return &Ideator{chat: chat}
}

// GenerateIdea asks the model for a video idea constrained to a JSON object.
// An empty or unparsable response is an error; the pipeline treats it as
// fatal.
func (g *Ideator) GenerateIdea(ctx context.Context, trend types.Trend) (types.ContentIdea, error) {
	prompt := fmt.Sprintf(
		"Create a YouTube video idea based on this trend: %s (Category: %s). "+
			"Include: title (max 70 chars), description (2-3 sentences), tags (8-10 relevant keywords), "+
			"and a brief 30-second script. "+
			`Respond as a JSON object with fields "title", "description", "tags", "script".`,
		trend.Title, trend.Category,
	)

	text, err := g.chat.Generate(ctx, ideationPreamble, prompt)
	if err != nil {
		return types.ContentIdea{}, fmt.Errorf("generate content idea: %w", err)
	}

	var idea types.ContentIdea
	if err := json.Unmarshal([]byte(extractJSON(text)), &idea); err != nil {
		return types.ContentIdea{}, fmt.Errorf("parse content idea: %w", err)
	}
	if idea.Title == "" {
		return types.ContentIdea{}, errors.New("content idea has no title")
	}
	return idea, nil
}

// extractJSON strips markdown code fences and surrounding prose, returning
// the first JSON value in the model output. Models wrap JSON in ```json
// fences often enough that parsing the raw text directly is unreliable.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "```"); start != -1 {
		rest := text[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	objAt := strings.IndexByte(text, '{')
	arrAt := strings.IndexByte(text, '[')
	open, close := objAt, byte('}')
	if objAt == -1 || (arrAt != -1 && arrAt < objAt) {
		open, close = arrAt, ']'
	}
	if open != -1 {
		if end := strings.LastIndexByte(text, close); end > open {
			return text[open : end+1]
		}
	}
	return text
}
