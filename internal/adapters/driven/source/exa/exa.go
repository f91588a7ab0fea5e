// Package exa provides a content source adapter using the Exa contents API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure ContentSource implements the interface.
var _ driven.ContentSource = (*ContentSource)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.exa.ai"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Exa content source.
type Config struct {
	// APIKey is the Exa API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.exa.ai).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// ContentSource fetches extracted page text via the Exa contents API.
type ContentSource struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// contentsRequest is the Exa /contents request format.
type contentsRequest struct {
	URLs []string `json:"urls"`
	Text bool     `json:"text"`
}

// contentsResponse is the Exa /contents response format.
type contentsResponse struct {
	Results []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a new Exa content source.
func New(cfg Config) (*ContentSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("exa: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &ContentSource{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Fetch returns the extracted text for the given URL. All failures wrap
// domain.ErrSourceUnavailable so callers can treat them as skippable.
func (s *ContentSource) Fetch(ctx context.Context, locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("%w: empty locator", domain.ErrInvalidInput)
	}

	jsonBody, err := json.Marshal(contentsRequest{
		URLs: []string{locator},
		Text: true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/contents",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrSourceUnavailable, err)
	}

	var contentsResp contentsResponse
	if err := json.Unmarshal(body, &contentsResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrSourceUnavailable, err)
	}

	if contentsResp.Error != nil {
		return "", fmt.Errorf("%w: exa error: %s", domain.ErrSourceUnavailable, contentsResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: exa returned status %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, string(body))
	}
	if len(contentsResp.Results) == 0 {
		return "", fmt.Errorf("%w: no content returned for %s", domain.ErrSourceUnavailable, locator)
	}

	return contentsResp.Results[0].Text, nil
}

// Close releases resources.
func (s *ContentSource) Close() error {
	return nil
}
