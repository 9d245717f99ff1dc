package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/metrics"
	"gyandeep/internal/util"
	"gyandeep/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TopicReport is the outcome of generating questions for one topic in a batch.
type TopicReport struct {
	Topic      string `json:"topic"`
	Generated  int    `json:"generated"`
	Duplicates int    `json:"duplicates"`
	Error      string `json:"error,omitempty"`
}

// AIService drafts new questions with the LLM and keeps only the novel ones.
type AIService interface {
	Generate(ctx context.Context, req dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error)
	// GenerateBatch runs Generate for every topic with bounded concurrency.
	// A failing topic is reported, not fatal.
	GenerateBatch(ctx context.Context, topics []string, perTopic int) ([]TopicReport, error)
}

type aiService struct {
	questions domain.QuestionRepository
	tx        domain.TransactionManager
	generator domain.QuestionGenerator
	embedder  domain.EmbeddingService
	metrics   *metrics.Metrics
	cfg       *config.Config
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAIService wires question generation. generator and embedder may be nil.
func NewAIService(
	questions domain.QuestionRepository,
	tx domain.TransactionManager,
	generator domain.QuestionGenerator,
	embedder domain.EmbeddingService,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aiService{
		questions: questions,
		tx:        tx,
		generator: generator,
		embedder:  embedder,
		metrics:   m,
		cfg:       cfg,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

func normalizePrompt(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (s *aiService) Generate(ctx context.Context, req dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	candidates, err := s.draft(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, req.Topic, candidates)
}

// draft asks the generator for candidates.
func (s *aiService) draft(ctx context.Context, req dto.GenerateQuestionsRequest) ([]*domain.Question, error) {
	if errs := s.validator.ValidateGenerateRequest(req); len(errs) > 0 {
		return nil, errs
	}
	if s.generator == nil {
		return nil, domain.NewLLMServiceError(errors.New("question generation is not configured"))
	}
	count := req.Count
	if count == 0 {
		count = domain.DefaultGenerationCount
	}

	candidates, err := s.generator.GenerateQuestions(ctx, domain.GenerationRequest{
		Topic:      req.Topic,
		Count:      count,
		Difficulty: domain.ParseDifficulty(req.Difficulty),
	})
	if s.metrics != nil {
		s.metrics.LLMCall("generate", err)
	}
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}
	return candidates, nil
}

// persist saves the candidates that survive deduplication in one transaction.
func (s *aiService) persist(ctx context.Context, topic string, candidates []*domain.Question) (*dto.GenerateQuestionsResponse, error) {
	existing, err := s.questions.List(ctx, domain.QuestionFilter{})
	if err != nil {
		return nil, wrapRepoError(err, "failed to load existing questions")
	}

	fresh := s.dropDuplicates(ctx, candidates, existing)
	for _, q := range fresh {
		if q.Type == "" {
			q.Type = topic
		}
	}

	if len(fresh) > 0 {
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			return s.questions.CreateBatch(ctx, fresh)
		})
		if err != nil {
			return nil, wrapRepoError(err, "failed to save generated questions")
		}
	}

	s.logger.Info("Generated questions saved",
		zap.String("topic", topic),
		zap.Int("candidates", len(candidates)),
		zap.Int("saved", len(fresh)),
	)
	return &dto.GenerateQuestionsResponse{
		Questions:  fresh,
		Generated:  len(fresh),
		Duplicates: len(candidates) - len(fresh),
	}, nil
}

// dropDuplicates removes candidates whose prompt matches an existing or earlier
// candidate, then, with an embedder, those too similar to any kept prompt.
func (s *aiService) dropDuplicates(ctx context.Context, candidates, existing []*domain.Question) []*domain.Question {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, q := range existing {
		seen[normalizePrompt(q.Question)] = struct{}{}
	}

	unique := make([]*domain.Question, 0, len(candidates))
	for _, q := range candidates {
		key := normalizePrompt(q.Question)
		if _, dup := seen[key]; dup {
			s.logger.Info("Dropping duplicate generated question", zap.String("question", q.Question))
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, q)
	}

	if s.embedder == nil || len(unique) == 0 {
		return unique
	}

	known := make([][]float32, 0, len(existing)+len(unique))
	for _, q := range existing {
		emb, err := s.embedder.Generate(ctx, q.Question)
		if err != nil {
			s.logger.Error("Failed to generate embedding for existing question",
				zap.String("question_id", q.ID),
				zap.Error(err),
			)
			continue
		}
		known = append(known, emb)
	}

	threshold := s.cfg.Embedding.SimilarityThreshold
	kept := make([]*domain.Question, 0, len(unique))
	for _, q := range unique {
		emb, err := s.embedder.Generate(ctx, q.Question)
		if err != nil {
			s.logger.Error("Failed to generate embedding for new question",
				zap.String("question", q.Question),
				zap.Error(err),
			)
			continue
		}
		if similarity := util.MaxSimilarity(emb, known); similarity >= threshold {
			s.logger.Info("Generated question is too similar to an existing one",
				zap.String("question", q.Question),
				zap.Float64("similarity", similarity),
				zap.Float64("threshold", threshold),
			)
			continue
		}
		known = append(known, emb)
		kept = append(kept, q)
	}
	return kept
}

func (s *aiService) GenerateBatch(ctx context.Context, topics []string, perTopic int) ([]TopicReport, error) {
	if len(topics) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("topics")}
	}
	if perTopic <= 0 {
		perTopic = s.cfg.Batch.QuestionsPerTopic
	}
	concurrency := s.cfg.Batch.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	s.logger.Info("Starting batch question generation",
		zap.Strings("topics", topics),
		zap.Int("per_topic", perTopic),
		zap.Int("concurrency", concurrency),
	)

	reports := make([]TopicReport, len(topics))
	// Drafts run concurrently; saves are serialised so each one deduplicates
	// against the questions stored by the others.
	var saveMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, topic := range topics {
		g.Go(func() error {
			report := TopicReport{Topic: topic}
			topic = strings.TrimSpace(topic)
			resp, err := func() (*dto.GenerateQuestionsResponse, error) {
				candidates, err := s.draft(gctx, dto.GenerateQuestionsRequest{Topic: topic, Count: perTopic})
				if err != nil {
					return nil, err
				}
				saveMu.Lock()
				defer saveMu.Unlock()
				return s.persist(gctx, topic, candidates)
			}()
			if err != nil {
				s.logger.Error("Batch generation failed for topic", zap.String("topic", topic), zap.Error(err))
				report.Error = err.Error()
			} else {
				report.Generated = resp.Generated
				report.Duplicates = resp.Duplicates
			}
			reports[i] = report
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
