package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gyandeep/internal/adapter/llm"
	"gyandeep/internal/domain"
	"gyandeep/internal/util"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const generationPrompt = `Generate %d professional MCQs for Nepal Loksewa or Banking exams about the topic: "%s". Difficulty level: %s. Ensure all facts are accurate for Nepal.

Respond with ONLY a JSON array. Each element must be an object with these fields:
- "question": the question text
- "options": an array of exactly 4 answer options
- "correctAnswer": the index (0-3) of the correct option
- "explanation": why the correct option is right
- "difficulty": "Easy", "Medium" or "Hard"
- "type": the sub-topic name`

type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Type          string   `json:"type"`
}

// LLMQuizGenerator implements domain.QuestionGenerator with any langchaingo model.
type LLMQuizGenerator struct {
	model   llms.Model
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewLLMQuizGenerator(model llms.Model, timeout time.Duration, logger *zap.Logger) (*LLMQuizGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("llm model cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMQuizGenerator{model: model, timeout: timeout, logger: logger, now: time.Now}, nil
}

// GenerateQuestions asks the model for req.Count questions and keeps the complete ones.
func (g *LLMQuizGenerator) GenerateQuestions(ctx context.Context, req domain.GenerationRequest) ([]*domain.Question, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, domain.NewInvalidInputError("topic is required")
	}
	count := req.Count
	if count <= 0 {
		count = domain.DefaultGenerationCount
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(generationPrompt, count, topic, difficulty)
	g.logger.Info("Generating questions with LLM",
		zap.String("topic", topic),
		zap.Int("count", count),
		zap.String("difficulty", string(difficulty)))

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithJSONMode(), llms.WithTemperature(0.7))
	if err != nil {
		g.logger.Error("LLM question generation failed", zap.Error(err))
		return nil, domain.NewLLMServiceError(err)
	}

	arr, err := llm.ExtractJSONArray(raw)
	if err != nil {
		g.logger.Error("No JSON array in LLM response", zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to parse LLM response: %w", err))
	}

	now := g.now()
	questions := make([]*domain.Question, 0, len(items))
	for _, item := range items {
		q, ok := toQuestion(item, now)
		if !ok {
			g.logger.Warn("LLM generated incomplete question", zap.Any("question", item))
			continue
		}
		questions = append(questions, q)
	}

	g.logger.Info("Parsed generated questions", zap.Int("requested", count), zap.Int("accepted", len(questions)))
	return questions, nil
}

func toQuestion(item generatedQuestion, now time.Time) (*domain.Question, bool) {
	if len(item.Options) != domain.OptionCount {
		return nil, false
	}
	q := &domain.Question{
		ID:            domain.AIQuestionIDPrefix + util.NewULID(),
		Category:      domain.AIGeneratedCategory,
		Type:          strings.TrimSpace(item.Type),
		Question:      strings.TrimSpace(item.Question),
		CorrectAnswer: item.CorrectAnswer,
		Explanation:   strings.TrimSpace(item.Explanation),
		Difficulty:    domain.ParseDifficulty(item.Difficulty),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, opt := range item.Options {
		q.Options[i] = strings.TrimSpace(opt)
	}
	if len(q.Validate()) > 0 {
		return nil, false
	}
	return q, true
}

var _ domain.QuestionGenerator = (*LLMQuizGenerator)(nil)
