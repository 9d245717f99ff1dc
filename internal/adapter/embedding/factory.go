package embedding

import (
	"fmt"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"

	"go.uber.org/zap"
)

// New returns the configured embedding service, or nil when embeddings are disabled.
func New(cfg *config.Config, c domain.Cache, logger *zap.Logger) (domain.EmbeddingService, error) {
	switch cfg.Embedding.Source {
	case "", "none":
		return nil, nil
	case "ollama":
		return NewOllamaEmbeddingService(cfg.Embedding.ServerURL, cfg.Embedding.Model, c, cfg.CacheTTLs.Embedding, logger)
	case "openai":
		apiKey := cfg.Embedding.APIKey
		if apiKey == "" {
			apiKey = cfg.LLM.APIKey
		}
		return NewOpenAIEmbeddingService(apiKey, cfg.Embedding.Model, c, cfg.CacheTTLs.Embedding, logger)
	default:
		return nil, fmt.Errorf("unsupported embedding.source %q", cfg.Embedding.Source)
	}
}
