package domain

import "context"

// QuestionGenerator drafts new multiple-choice questions with an LLM.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerationRequest) ([]*Question, error)
}

// PerformanceAnalyzer turns a session's answers into mentor feedback.
type PerformanceAnalyzer interface {
	AnalyzePerformance(ctx context.Context, entries []PerformanceEntry) (*AIAnalysisReport, error)
}

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
