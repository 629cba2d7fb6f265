package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	replicateEndpoint = "https://api.replicate.com/v1/predictions"

	// Stable Diffusion version used for thumbnail-style stills.
	stableDiffusionVersion = "ac732df83cea7fff18b8472768c88ad041fa750ff7682a21affe81863cbe77e4"
)

// ReplicateClient calls the Replicate predictions API to produce a visual
// asset for a content idea. There is no official Go SDK, so this is a plain
// HTTP client.
type ReplicateClient struct {
	apiToken string
	endpoint string
	client   *http.Client
}

// NewReplicateClient builds a Replicate asset generator.
func NewReplicateClient(apiToken string) *ReplicateClient {
	return &ReplicateClient{
		apiToken: apiToken,
		endpoint: replicateEndpoint,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

type predictionResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
}

// GenerateImage renders one still for the given title and returns its URL.
// Callers treat any error as a cue to fall back to the placeholder asset.
func (r *ReplicateClient) GenerateImage(ctx context.Context, title string) (string, error) {
	reqBody := predictionRequest{
		Version: stableDiffusionVersion,
		Input: predictionInput{
			Prompt:         fmt.Sprintf("YouTube thumbnail: %s, professional, eye-catching, high quality", title),
			NegativePrompt: "text, watermark, blurry, low quality",
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+r.apiToken)
	// Ask Replicate to hold the connection until the prediction resolves
	req.Header.Set("Prefer", "wait")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send prediction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read prediction response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("replicate returned %d: %s", resp.StatusCode, string(body))
	}

	var prediction predictionResponse
	if err := json.Unmarshal(body, &prediction); err != nil {
		return "", fmt.Errorf("decode prediction response: %w", err)
	}

	if prediction.Error != "" {
		return "", fmt.Errorf("prediction failed: %s", prediction.Error)
	}
	if len(prediction.Output) == 0 || prediction.Output[0] == "" {
		return "", errors.New("prediction produced no output")
	}

	return prediction.Output[0], nil
}
