package embedding

import (
	"fmt"
	"time"

	"gyandeep/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// NewOllamaEmbeddingService creates an embedding service backed by an Ollama server.
func NewOllamaEmbeddingService(serverURL, modelName string, c domain.Cache, ttl time.Duration, logger *zap.Logger) (domain.EmbeddingService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from Ollama LLM: %w", err)
	}

	return newCachedEmbeddingService("ollama", embedder, c, ttl, logger), nil
}
