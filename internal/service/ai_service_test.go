package service

import (
	"context"
	"errors"
	"testing"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func aiConfig() *config.Config {
	return &config.Config{
		Embedding: config.EmbeddingConfig{SimilarityThreshold: 0.9},
		Batch:     config.BatchConfig{Concurrency: 2, QuestionsPerTopic: 3},
	}
}

func generated(prompts ...string) []*domain.Question {
	qs := make([]*domain.Question, 0, len(prompts))
	for _, p := range prompts {
		qs = append(qs, &domain.Question{
			ID:         domain.AIQuestionIDPrefix + p,
			Category:   domain.AIGeneratedCategory,
			Question:   p,
			Options:    [domain.OptionCount]string{"A", "B", "C", "D"},
			Difficulty: domain.DifficultyMedium,
		})
	}
	return qs
}

func TestAIService_Generate_DropsExactDuplicates(t *testing.T) {
	questions := new(MockQuestionRepository)
	generator := new(MockQuestionGenerator)
	svc := NewAIService(questions, &MockTransactionManager{}, generator, nil, nil, aiConfig(), nil)

	generator.On("GenerateQuestions", mock.Anything, domain.GenerationRequest{
		Topic: "Rivers of Nepal", Count: domain.DefaultGenerationCount, Difficulty: domain.DifficultyMedium,
	}).Return(generated("Longest river?", "Koshi source?", "longest   RIVER?"), nil)
	questions.On("List", mock.Anything, domain.QuestionFilter{}).Return([]*domain.Question{{ID: "old", Question: "Koshi source?"}}, nil)
	questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(qs []*domain.Question) bool {
		return len(qs) == 1 && qs[0].Question == "Longest river?"
	})).Return(nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateQuestionsRequest{Topic: " Rivers of Nepal "})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 2, resp.Duplicates)
	assert.Equal(t, "Rivers of Nepal", resp.Questions[0].Type)
	questions.AssertExpectations(t)
}

func TestAIService_Generate_DropsSimilarByEmbedding(t *testing.T) {
	questions := new(MockQuestionRepository)
	generator := new(MockQuestionGenerator)
	embedder := new(MockEmbeddingService)
	svc := NewAIService(questions, &MockTransactionManager{}, generator, embedder, nil, aiConfig(), nil)

	generator.On("GenerateQuestions", mock.Anything, mock.Anything).Return(generated("Near copy?", "Fresh one?"), nil)
	questions.On("List", mock.Anything, mock.Anything).Return([]*domain.Question{{ID: "old", Question: "Original?"}}, nil)
	embedder.On("Generate", mock.Anything, "Original?").Return([]float32{1, 0}, nil)
	embedder.On("Generate", mock.Anything, "Near copy?").Return([]float32{0.99, 0.05}, nil)
	embedder.On("Generate", mock.Anything, "Fresh one?").Return([]float32{0, 1}, nil)
	questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(qs []*domain.Question) bool {
		return len(qs) == 1 && qs[0].Question == "Fresh one?"
	})).Return(nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateQuestionsRequest{Topic: "history", Count: 2, Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 1, resp.Duplicates)
}

func TestAIService_Generate_Errors(t *testing.T) {
	t.Run("no generator", func(t *testing.T) {
		svc := NewAIService(new(MockQuestionRepository), &MockTransactionManager{}, nil, nil, nil, aiConfig(), nil)
		_, err := svc.Generate(context.Background(), dto.GenerateQuestionsRequest{Topic: "x"})
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	})

	t.Run("missing topic", func(t *testing.T) {
		svc := NewAIService(new(MockQuestionRepository), &MockTransactionManager{}, new(MockQuestionGenerator), nil, nil, aiConfig(), nil)
		_, err := svc.Generate(context.Background(), dto.GenerateQuestionsRequest{Topic: "  "})
		var verrs domain.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})

	t.Run("generator failure", func(t *testing.T) {
		generator := new(MockQuestionGenerator)
		generator.On("GenerateQuestions", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
		svc := NewAIService(new(MockQuestionRepository), &MockTransactionManager{}, generator, nil, nil, aiConfig(), nil)

		_, err := svc.Generate(context.Background(), dto.GenerateQuestionsRequest{Topic: "x"})
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	})
}

func TestAIService_GenerateBatch(t *testing.T) {
	questions := new(MockQuestionRepository)
	generator := new(MockQuestionGenerator)
	svc := NewAIService(questions, &MockTransactionManager{}, generator, nil, nil, aiConfig(), nil)

	generator.On("GenerateQuestions", mock.Anything, mock.MatchedBy(func(r domain.GenerationRequest) bool { return r.Topic == "geography" })).
		Return(generated("Mountains?", "Lakes?"), nil)
	generator.On("GenerateQuestions", mock.Anything, mock.MatchedBy(func(r domain.GenerationRequest) bool { return r.Topic == "economy" })).
		Return(nil, errors.New("timeout"))
	questions.On("List", mock.Anything, mock.Anything).Return([]*domain.Question{}, nil)
	questions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	reports, err := svc.GenerateBatch(context.Background(), []string{"geography", "economy"}, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "geography", reports[0].Topic)
	assert.Equal(t, 2, reports[0].Generated)
	assert.Empty(t, reports[0].Error)
	assert.Equal(t, "economy", reports[1].Topic)
	assert.NotEmpty(t, reports[1].Error)

	generator.AssertCalled(t, "GenerateQuestions", mock.Anything, mock.MatchedBy(func(r domain.GenerationRequest) bool { return r.Count == 3 }))
}
