package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avenhq/avenassist/internal/adapters/driven/config"
)

// fakeOpenAI serves the /models preflight endpoint with the given
// status.
func fakeOpenAI(t *testing.T, modelsStatus int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(modelsStatus)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

// fakePineconeControlPlane reports an existing 1536-dimension index.
func fakePineconeControlPlane(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "support-faq",
			"dimension": 1536,
			"metric":    "cosine",
			"host":      "support-faq-abc123.svc.pinecone.io",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func indexTestConfig(t *testing.T, openaiURL, pineconeURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.BaseURL = openaiURL
	cfg.Pinecone.APIKey = "pc-test"
	cfg.Pinecone.IndexName = "support-faq"
	cfg.Pinecone.ControlPlaneURL = pineconeURL
	return cfg
}

func TestBuildIndexer_PreflightsEmbeddingService(t *testing.T) {
	openai := fakeOpenAI(t, http.StatusUnauthorized)

	cfg := indexTestConfig(t, openai.URL, "http://unused")
	_, _, err := buildIndexer(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service preflight")
	assert.Contains(t, err.Error(), "status 401")
}

func TestBuildIndexer_WiresServices(t *testing.T) {
	openai := fakeOpenAI(t, http.StatusOK)
	pc := fakePineconeControlPlane(t)

	cfg := indexTestConfig(t, openai.URL, pc.URL)
	ix, cleanup, err := buildIndexer(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, ix)
	cleanup()
}

func TestBuildAsker_PreflightsLanguageModel(t *testing.T) {
	openai := fakeOpenAI(t, http.StatusServiceUnavailable)
	pc := fakePineconeControlPlane(t)

	cfg := indexTestConfig(t, openai.URL, pc.URL)
	_, _, err := buildAsker(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language model preflight")
	assert.Contains(t, err.Error(), "status 503")
}

func TestBuildAsker_WiresServices(t *testing.T) {
	openai := fakeOpenAI(t, http.StatusOK)
	pc := fakePineconeControlPlane(t)

	cfg := indexTestConfig(t, openai.URL, pc.URL)
	svc, cleanup, err := buildAsker(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, svc)
	cleanup()
}
