package embedding

import (
	"fmt"
	"time"

	"gyandeep/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultOpenAIEmbeddingModel = "text-embedding-3-small"

// NewOpenAIEmbeddingService creates an embedding service backed by the OpenAI API.
func NewOpenAIEmbeddingService(apiKey, modelName string, c domain.Cache, ttl time.Duration, logger *zap.Logger) (domain.EmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultOpenAIEmbeddingModel
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}

	return newCachedEmbeddingService("openai", embedder, c, ttl, logger), nil
}
