package cli

import (
	"context"
	"fmt"

	"github.com/avenhq/avenassist/internal/adapters/driven/config"
	"github.com/avenhq/avenassist/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/avenhq/avenassist/internal/adapters/driven/llm/openai"
	"github.com/avenhq/avenassist/internal/adapters/driven/source/exa"
	"github.com/avenhq/avenassist/internal/adapters/driven/storage/file"
	"github.com/avenhq/avenassist/internal/adapters/driven/storage/sqlite"
	"github.com/avenhq/avenassist/internal/adapters/driven/vector/pinecone"
	"github.com/avenhq/avenassist/internal/chunkers"
	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
	"github.com/avenhq/avenassist/internal/core/services"
	"github.com/avenhq/avenassist/internal/logger"
	"github.com/avenhq/avenassist/internal/normalisers/faq"
)

// cleanupFunc releases adapter resources after a command finishes.
type cleanupFunc func()

// buildHarvester wires the content source, normaliser and artefact
// store into a harvest service.
func buildHarvester(cfg *config.Config) (*services.HarvestService, cleanupFunc, error) {
	if err := cfg.ValidateHarvest(); err != nil {
		return nil, nil, err
	}

	source, err := exa.New(exa.Config{
		APIKey:  cfg.Exa.APIKey,
		BaseURL: cfg.Exa.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	artefacts, err := file.NewArtefactStore(cfg.DataDir)
	if err != nil {
		source.Close()
		return nil, nil, err
	}

	svc := services.NewHarvestService(source, faq.New(), artefacts, cfg.Harvest.Title)
	return svc, func() { source.Close() }, nil
}

// buildIndexer wires the artefact store, chunker, embedder, vector
// index and chunk store into an indexer. The vector index is created
// on first use when absent.
func buildIndexer(ctx context.Context, cfg *config.Config) (*services.Indexer, cleanupFunc, error) {
	if err := cfg.ValidateIndex(); err != nil {
		return nil, nil, err
	}

	artefacts, err := file.NewArtefactStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	strategy, err := buildStrategy(cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		return nil, nil, err
	}

	// Preflight: a bad key or unreachable API should fail the run here,
	// not after a partial batch.
	if err := embedder.Ping(ctx); err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("embedding service preflight: %w", err)
	}

	index, chunkStore, cleanup, err := buildStores(ctx, cfg, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	var opts []services.IndexerOption
	if cfg.Index.Concurrency > 0 {
		opts = append(opts, services.WithConcurrency(cfg.Index.Concurrency))
	}
	if cfg.Index.MaxRetries > 0 {
		opts = append(opts, services.WithMaxRetries(cfg.Index.MaxRetries))
	}
	if cfg.Index.EmbedsPerSec > 0 {
		opts = append(opts, services.WithEmbedRate(float64(cfg.Index.EmbedsPerSec)))
	}

	ix := services.NewIndexer(artefacts, strategy, embedder, index, chunkStore, opts...)
	return ix, func() {
		cleanup()
		embedder.Close()
	}, nil
}

// buildAsker wires the guardrail, retriever and answerer into an ask
// service.
func buildAsker(ctx context.Context, cfg *config.Config) (*services.AskService, cleanupFunc, error) {
	if err := cfg.ValidateAsk(); err != nil {
		return nil, nil, err
	}

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		return nil, nil, err
	}

	index, chunkStore, cleanup, err := buildStores(ctx, cfg, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	llm, err := llmopenai.NewLLMService(llmopenai.LLMConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
	})
	if err != nil {
		cleanup()
		embedder.Close()
		return nil, nil, err
	}

	// Preflight the model before spending an embedding call on the
	// question.
	if err := llm.Ping(ctx); err != nil {
		cleanup()
		embedder.Close()
		llm.Close()
		return nil, nil, fmt.Errorf("language model preflight: %w", err)
	}

	policy, err := domain.ParseNoContextPolicy(cfg.Ask.NoContextPolicy)
	if err != nil {
		cleanup()
		embedder.Close()
		return nil, nil, err
	}

	var answererOpts []services.AnswererOption
	if cfg.Ask.Brand != "" {
		answererOpts = append(answererOpts, services.WithBrand(cfg.Ask.Brand))
	}

	retriever := services.NewRetriever(embedder, index, chunkStore)
	answerer := services.NewAnswerer(llm, policy, answererOpts...)
	svc := services.NewAskService(services.NewGuardrail(), retriever, answerer)

	return svc, func() {
		cleanup()
		embedder.Close()
		llm.Close()
	}, nil
}

// buildStrategy resolves the configured chunking strategy from the
// registry.
func buildStrategy(cfg *config.Config) (driven.ChunkStrategy, error) {
	registry := chunkers.NewRegistry()
	chunkers.RegisterDefaults(registry)

	name := cfg.Index.Strategy
	if name == "" {
		name = chunkers.DefaultStrategy
	}
	return registry.Build(name, nil)
}

// buildStores opens the pinecone index and the local chunk store,
// provisioning the index when it does not exist yet.
func buildStores(ctx context.Context, cfg *config.Config, dimensions int) (
	*pinecone.VectorIndex, *sqlite.ChunkStore, cleanupFunc, error,
) {
	index, err := pinecone.New(pinecone.Config{
		APIKey:          cfg.Pinecone.APIKey,
		IndexName:       cfg.Pinecone.IndexName,
		IndexHost:       cfg.Pinecone.IndexHost,
		ControlPlaneURL: cfg.Pinecone.ControlPlaneURL,
		Dimension:       dimensions,
		Cloud:           cfg.Pinecone.Cloud,
		Region:          cfg.Pinecone.Region,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	exists, err := index.Exists(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("checking index: %w", err)
	}
	if !exists {
		logger.Info("Creating index %s (%d dimensions, cosine)", cfg.Pinecone.IndexName, dimensions)
		if err := index.Create(ctx, dimensions, "cosine"); err != nil {
			return nil, nil, nil, fmt.Errorf("creating index: %w", err)
		}
	}

	chunkStore, err := sqlite.NewChunkStore(cfg.DataDir)
	if err != nil {
		index.Close()
		return nil, nil, nil, err
	}

	return index, chunkStore, func() {
		chunkStore.Close()
		index.Close()
	}, nil
}
