// Package pinecone provides a vector index adapter using the Pinecone REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultMetric          = "cosine"
	DefaultCloud           = "aws"
	DefaultRegion          = "us-east-1"
	DefaultTimeout         = 30 * time.Second
)

// Config holds configuration for the Pinecone vector index.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the name of the index to operate on (required).
	IndexName string

	// IndexHost is the data plane host for the index. When empty it is
	// resolved from the control plane on first use.
	IndexHost string

	// ControlPlaneURL is the control plane base URL
	// (default: https://api.pinecone.io).
	ControlPlaneURL string

	// Dimension is the vector dimension the index is expected to have.
	Dimension int

	// Metric is the similarity metric for index creation (default: cosine).
	Metric string

	// Cloud and Region select where a serverless index is provisioned.
	Cloud  string
	Region string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// VectorIndex stores and queries vectors in a Pinecone serverless index.
type VectorIndex struct {
	client          *http.Client
	apiKey          string
	indexName       string
	controlPlaneURL string
	dimension       int
	metric          string
	cloud           string
	region          string

	// mu guards indexHost: upserts run concurrently from the indexer's
	// worker pool, and the first of them may resolve the host lazily.
	mu        sync.Mutex
	indexHost string
}

// apiError is the Pinecone error response format.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type describeIndexResponse struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type createIndexRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Spec      struct {
		Serverless struct {
			Cloud  string `json:"cloud"`
			Region string `json:"region"`
		} `json:"serverless"`
	} `json:"spec"`
}

type upsertRequest struct {
	Vectors []vectorRecord `json:"vectors"`
}

type vectorRecord struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float64           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

// New creates a Pinecone vector index client.
func New(cfg Config) (*VectorIndex, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone: index name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("pinecone: dimension must be positive")
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &VectorIndex{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:          cfg.APIKey,
		indexName:       cfg.IndexName,
		indexHost:       normaliseHost(cfg.IndexHost),
		controlPlaneURL: cfg.ControlPlaneURL,
		dimension:       cfg.Dimension,
		metric:          cfg.Metric,
		cloud:           cfg.Cloud,
		region:          cfg.Region,
	}, nil
}

// normaliseHost ensures the data plane host carries a scheme.
func normaliseHost(host string) string {
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

// host returns the resolved data plane host, or "" when unknown.
func (v *VectorIndex) host() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.indexHost
}

// adoptHost records a host reported by the control plane. A host that
// was configured or already resolved wins.
func (v *VectorIndex) adoptHost(h string) {
	h = normaliseHost(h)
	if h == "" {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.indexHost == "" {
		v.indexHost = h
	}
}

// Exists reports whether the configured index has been created.
// A successful describe also resolves the data plane host.
func (v *VectorIndex) Exists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.controlPlaneURL+"/indexes/"+v.indexName, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("describe index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, apiErrorFrom(resp.StatusCode, body)
	}

	var desc describeIndexResponse
	if err := json.Unmarshal(body, &desc); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}

	if desc.Dimension != v.dimension {
		return false, fmt.Errorf("pinecone: index %q has dimension %d, expected %d",
			v.indexName, desc.Dimension, v.dimension)
	}
	v.adoptHost(desc.Host)
	return true, nil
}

// Create provisions a serverless index with the given dimension and metric.
func (v *VectorIndex) Create(ctx context.Context, dimension int, metric string) error {
	reqBody := createIndexRequest{
		Name:      v.indexName,
		Dimension: dimension,
		Metric:    metric,
	}
	reqBody.Spec.Serverless.Cloud = v.cloud
	reqBody.Spec.Serverless.Region = v.region

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.controlPlaneURL+"/indexes", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return apiErrorFrom(resp.StatusCode, body)
	}

	var desc describeIndexResponse
	if err := json.Unmarshal(body, &desc); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	v.adoptHost(desc.Host)
	return nil
}

// Upsert inserts or replaces the record with the given id.
func (v *VectorIndex) Upsert(ctx context.Context, id string, vector []float32, meta driven.RecordMetadata) error {
	host, err := v.dataPlaneHost(ctx)
	if err != nil {
		return err
	}

	reqBody := upsertRequest{
		Vectors: []vectorRecord{{
			ID:     id,
			Values: vector,
			Metadata: map[string]string{
				"preview": meta.Preview,
				"section": meta.Section,
			},
		}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		host+"/vectors/upsert", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apiErrorFrom(resp.StatusCode, body)
	}
	return nil
}

// Query returns up to topK records ordered by descending score.
func (v *VectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]driven.VectorMatch, error) {
	host, err := v.dataPlaneHost(ctx)
	if err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		host+"/query", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFrom(resp.StatusCode, body)
	}

	var queryResp queryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	matches := make([]driven.VectorMatch, 0, len(queryResp.Matches))
	for _, m := range queryResp.Matches {
		matches = append(matches, driven.VectorMatch{
			ID:    m.ID,
			Score: m.Score,
			Metadata: driven.RecordMetadata{
				Preview: m.Metadata["preview"],
				Section: m.Metadata["section"],
			},
		})
	}
	return matches, nil
}

// Dimensions returns the dimension the index was configured with.
func (v *VectorIndex) Dimensions() int {
	return v.dimension
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// dataPlaneHost returns the index host, resolving it from the control
// plane when it was not configured up front.
func (v *VectorIndex) dataPlaneHost(ctx context.Context) (string, error) {
	if h := v.host(); h != "" {
		return h, nil
	}
	exists, err := v.Exists(ctx)
	if err != nil {
		return "", err
	}
	h := v.host()
	if !exists || h == "" {
		return "", fmt.Errorf("pinecone: index %q host unknown, create the index first", v.indexName)
	}
	return h, nil
}

// apiErrorFrom turns a non-2xx Pinecone response into an error,
// preferring the structured message when the body parses.
func apiErrorFrom(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("pinecone error (status %d): %s", status, apiErr.Error.Message)
	}
	return fmt.Errorf("pinecone error (status %d): %s", status, string(body))
}
