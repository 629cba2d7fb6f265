package services

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// ChatClient abstracts a text-generation capability. Implementations return
// the raw model text for a preamble + prompt pair.
type ChatClient interface {
	Generate(ctx context.Context, preamble, prompt string) (string, error)
}

// CohereChat implements ChatClient using the Cohere Chat API.
type CohereChat struct {
	client *cohereclient.Client
	model  string
}

// NewCohereChat builds a Cohere-backed chat client.
func NewCohereChat(apiKey, model string) *CohereChat {
	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere API
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)

	return &CohereChat{client: client, model: model}
}

// Generate sends one chat turn and returns the model text.
func (c *CohereChat) Generate(ctx context.Context, preamble, prompt string) (string, error) {
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  prompt,
		Model:    &c.model,
		Preamble: &preamble,
	})
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Text == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}
