package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
	"github.com/avenhq/avenassist/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexOrchestrator = (*Indexer)(nil)

// Indexing defaults. Embedding calls are throttled to stay inside
// external service rate limits; upsert order is irrelevant because
// chunk ids are deterministic.
const (
	DefaultConcurrency  = 4
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultEmbedsPerSec = 5
)

// Indexer chunks the stored artefact, embeds each chunk and upserts
// the records into the vector index and the full-text chunk store.
type Indexer struct {
	artefacts  driven.ArtefactStore
	strategy   driven.ChunkStrategy
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	chunkStore driven.ChunkStore

	limiter     *rate.Limiter
	concurrency int
	maxRetries  int
	backoff     time.Duration
}

// IndexerOption configures the indexer.
type IndexerOption func(*Indexer)

// WithConcurrency bounds the number of concurrent embedding workers.
func WithConcurrency(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// WithMaxRetries sets the per-chunk retry budget for embedding calls.
func WithMaxRetries(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.maxRetries = n
		}
	}
}

// WithRetryBackoff sets the base backoff between retries. Backoff
// doubles per attempt.
func WithRetryBackoff(d time.Duration) IndexerOption {
	return func(ix *Indexer) {
		if d > 0 {
			ix.backoff = d
		}
	}
}

// WithEmbedRate throttles embedding calls per second across workers.
func WithEmbedRate(perSecond float64) IndexerOption {
	return func(ix *Indexer) {
		if perSecond > 0 {
			ix.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(
	artefacts driven.ArtefactStore,
	strategy driven.ChunkStrategy,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunkStore driven.ChunkStore,
	opts ...IndexerOption,
) *Indexer {
	ix := &Indexer{
		artefacts:   artefacts,
		strategy:    strategy,
		embedder:    embedder,
		index:       index,
		chunkStore:  chunkStore,
		limiter:     rate.NewLimiter(rate.Limit(DefaultEmbedsPerSec), 1),
		concurrency: DefaultConcurrency,
		maxRetries:  DefaultMaxRetries,
		backoff:     DefaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// chunkResult is the per-chunk outcome, keyed to chunk order so the
// report lists ids deterministically regardless of worker scheduling.
type chunkResult struct {
	order   int
	chunkID string
	err     error
}

// Index runs one indexing batch. Deterministic chunk ids make the
// batch a pure overwrite: re-running over unchanged input leaves the
// index record set unchanged.
//
// The dimension check runs before any billable call. Per-chunk
// embedding failures are retried with backoff and then recorded in the
// report rather than aborting the batch; opts.OnlyIDs resumes a batch
// from exactly those chunks.
func (ix *Indexer) Index(ctx context.Context, opts driving.IndexOptions) (*driving.IndexReport, error) {
	logger.Section("Indexing")
	start := time.Now()

	if got, want := ix.embedder.Dimensions(), ix.index.Dimensions(); got != want {
		return nil, fmt.Errorf("%w: embedding model %s produces %d dimensions, index expects %d",
			domain.ErrConfig, ix.embedder.ModelName(), got, want)
	}

	text, err := ix.artefacts.LoadMarkdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artefact: %w", err)
	}

	chunks, err := ix.strategy.Split(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("chunk artefact: %w", err)
	}
	logger.Debug("Strategy %s produced %d chunks", ix.strategy.Name(), len(chunks))

	if len(opts.OnlyIDs) > 0 {
		chunks = filterChunks(chunks, opts.OnlyIDs)
		logger.Info("Resume run: %d of requested chunks found", len(chunks))
	}

	results := ix.processChunks(ctx, chunks)

	report := &driving.IndexReport{
		RunID:    uuid.New().String(),
		Duration: time.Since(start),
	}

	sort.Slice(results, func(i, j int) bool { return results[i].order < results[j].order })
	for _, r := range results {
		if r.err != nil {
			report.Failed = append(report.Failed, driving.ChunkFailure{
				ChunkID: r.chunkID,
				Reason:  r.err.Error(),
			})
			logger.Error("Chunk %s failed: %v", r.chunkID, r.err)
			continue
		}
		report.Succeeded = append(report.Succeeded, r.chunkID)
	}

	if err := ctx.Err(); err != nil {
		// Each completed upsert is independently atomic and
		// idempotent, so a cancelled batch leaves no inconsistency.
		return report, err
	}

	logger.Info("Indexed %d chunks, %d failed, in %s",
		len(report.Succeeded), len(report.Failed), report.Duration.Round(time.Millisecond))
	return report, nil
}

// processChunks runs the worker pool over the chunk sequence.
func (ix *Indexer) processChunks(ctx context.Context, chunks []domain.Chunk) []chunkResult {
	jobs := make(chan int)
	results := make([]chunkResult, 0, len(chunks))

	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := ix.concurrency
	if workers > len(chunks) {
		workers = len(chunks)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				err := ix.processOne(ctx, chunks[i])

				mu.Lock()
				results = append(results, chunkResult{
					order:   i,
					chunkID: chunks[i].ID,
					err:     err,
				})
				mu.Unlock()
			}
		}()
	}

	// Cancellation happens between chunks: undispatched work is
	// dropped, in-flight chunks finish their upsert.
feed:
	for i := range chunks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// processOne embeds a single chunk and writes both stores.
func (ix *Indexer) processOne(ctx context.Context, chunk domain.Chunk) error {
	vector, err := ix.embedWithRetry(ctx, chunk)
	if err != nil {
		return err
	}

	meta := driven.RecordMetadata{
		Preview: chunk.Preview(),
		Section: chunk.Section,
	}
	if err := ix.index.Upsert(ctx, chunk.ID, vector, meta); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", domain.ErrVectorIndex, chunk.ID, err)
	}

	// Full text goes to the side channel so synthesis never depends on
	// the truncated preview.
	if err := ix.chunkStore.Put(ctx, chunk); err != nil {
		return fmt.Errorf("store chunk %s: %w", chunk.ID, err)
	}

	logger.Debug("Upserted %s (%d chars)", chunk.ID, len(chunk.Text))
	return nil
}

// embedWithRetry calls the embedding service with throttling, retrying
// with doubling backoff until the retry budget is exhausted.
func (ix *Indexer) embedWithRetry(ctx context.Context, chunk domain.Chunk) ([]float32, error) {
	var lastErr error
	backoff := ix.backoff

	for attempt := 0; attempt < ix.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		if err := ix.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vector, err := ix.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			lastErr = err
			logger.Warn("Embed %s attempt %d failed: %v", chunk.ID, attempt+1, err)
			continue
		}

		if len(vector) != ix.embedder.Dimensions() {
			return nil, fmt.Errorf("%w: got %d dimensions, expected %d",
				domain.ErrEmbeddingService, len(vector), ix.embedder.Dimensions())
		}
		return vector, nil
	}

	return nil, fmt.Errorf("%w: %d attempts: %v", domain.ErrEmbeddingService, ix.maxRetries, lastErr)
}

// filterChunks keeps only the chunks whose ids were requested.
func filterChunks(chunks []domain.Chunk, ids []string) []domain.Chunk {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	kept := chunks[:0:0]
	for _, c := range chunks {
		if _, ok := wanted[c.ID]; ok {
			kept = append(kept, c)
		}
	}
	return kept
}
