package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// fakeSource serves canned text per locator.
type fakeSource struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeSource) Fetch(_ context.Context, locator string) (string, error) {
	if err, ok := f.errs[locator]; ok {
		return "", err
	}
	text, ok := f.texts[locator]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, locator)
	}
	return text, nil
}

func (f *fakeSource) Close() error { return nil }

// fakeArtefacts holds the artefact in memory.
type fakeArtefacts struct {
	mu       sync.Mutex
	saved    *domain.FAQDocument
	markdown string
	loadErr  error
}

func (f *fakeArtefacts) Save(_ context.Context, doc *domain.FAQDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = doc
	f.markdown = doc.Markdown()
	return nil
}

func (f *fakeArtefacts) LoadMarkdown(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return "", f.loadErr
	}
	if f.markdown == "" {
		return "", fmt.Errorf("%w: no artefact", domain.ErrNotFound)
	}
	return f.markdown, nil
}

func (f *fakeArtefacts) Path() string { return "/tmp/fake-artefact.md" }

// fakeEmbedder produces deterministic vectors from text. Specific
// texts can be made to fail a number of times before succeeding.
type fakeEmbedder struct {
	mu        sync.Mutex
	dims      int
	vectors   map[string][]float32
	failTexts map[string]int
	calls     int
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{
		dims:      dims,
		vectors:   make(map[string][]float32),
		failTexts: make(map[string]int),
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if remaining, ok := f.failTexts[text]; ok && remaining != 0 {
		if remaining > 0 {
			f.failTexts[text] = remaining - 1
		}
		return nil, fmt.Errorf("embedding backend unavailable")
	}

	if v, ok := f.vectors[text]; ok {
		return v, nil
	}

	// Deterministic pseudo-embedding from the text bytes.
	v := make([]float32, f.dims)
	for i, b := range []byte(text) {
		v[i%f.dims] += float32(b)
	}
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return f.dims }
func (f *fakeEmbedder) ModelName() string          { return "fake-embedder" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

// fakeRecord is one stored vector with metadata.
type fakeRecord struct {
	vector []float32
	meta   driven.RecordMetadata
}

// fakeIndex is an in-memory vector index with real cosine ranking.
type fakeIndex struct {
	mu        sync.Mutex
	dims      int
	exists    bool
	records   map[string]fakeRecord
	queryErr  error
	upsertErr error
}

func newFakeIndex(dims int) *fakeIndex {
	return &fakeIndex{
		dims:    dims,
		exists:  true,
		records: make(map[string]fakeRecord),
	}
}

func (f *fakeIndex) Exists(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, nil
}

func (f *fakeIndex) Create(_ context.Context, dimension int, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exists = true
	f.dims = dimension
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, id string, vector []float32, meta driven.RecordMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[id] = fakeRecord{vector: vector, meta: meta}
	return nil
}

func (f *fakeIndex) Query(_ context.Context, vector []float32, topK int) ([]driven.VectorMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	matches := make([]driven.VectorMatch, 0, len(f.records))
	for id, rec := range f.records {
		matches = append(matches, driven.VectorMatch{
			ID:       id,
			Score:    cosine(vector, rec.vector),
			Metadata: rec.meta,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (f *fakeIndex) Dimensions() int { return f.dims }
func (f *fakeIndex) Close() error    { return nil }

func (f *fakeIndex) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// fakeChunkStore is an in-memory chunk side channel.
type fakeChunkStore struct {
	mu     sync.Mutex
	chunks map[string]domain.Chunk
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: make(map[string]domain.Chunk)}
}

func (f *fakeChunkStore) Put(_ context.Context, chunk domain.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks[chunk.ID] = chunk
	return nil
}

func (f *fakeChunkStore) Get(_ context.Context, id string) (domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chunk, ok := f.chunks[id]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("%w: chunk %s", domain.ErrNotFound, id)
	}
	return chunk, nil
}

func (f *fakeChunkStore) Close() error { return nil }

// fakeLLM records the prompts it was called with.
type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	system   string
	user     string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.system = system
	f.user = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }
