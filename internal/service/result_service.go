package service

import (
	"context"
	"errors"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/metrics"

	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// ResultService serves finished results, their review and the AI analysis.
type ResultService interface {
	// Save persists a result and warms the cache.
	Save(ctx context.Context, result *domain.QuizResult) error
	Get(ctx context.Context, userID, resultID string) (*dto.ResultSummaryResponse, error)
	Review(ctx context.Context, userID, resultID string) (*dto.ResultReviewResponse, error)
	History(ctx context.Context, userID string, limit int) (*dto.ResultListResponse, error)
	Analyze(ctx context.Context, userID, resultID string) (*dto.AnalysisResponse, error)
}

type resultService struct {
	results   domain.ResultRepository
	questions domain.QuestionRepository
	cache     ResultCacheService
	analyzer  domain.PerformanceAnalyzer
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewResultService wires the result store. analyzer may be nil when no LLM is configured.
func NewResultService(
	results domain.ResultRepository,
	questions domain.QuestionRepository,
	cache ResultCacheService,
	analyzer domain.PerformanceAnalyzer,
	m *metrics.Metrics,
	logger *zap.Logger,
) ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &resultService{
		results:   results,
		questions: questions,
		cache:     cache,
		analyzer:  analyzer,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *resultService) Save(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInvalidInputError("result is required")
	}
	if err := s.results.Save(ctx, result); err != nil {
		return wrapRepoError(err, "failed to save result")
	}
	if err := s.cache.PutResult(ctx, result); err != nil {
		s.logger.Warn("Failed to cache result", zap.String("resultID", result.ID), zap.Error(err))
	}
	return nil
}

// load reads a result through the cache. Results owned by someone else are reported as missing.
func (s *resultService) load(ctx context.Context, userID, resultID string) (*domain.QuizResult, error) {
	result, err := s.cache.GetResult(ctx, resultID)
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			s.logger.Warn("Result cache read failed", zap.String("resultID", resultID), zap.Error(err))
		}
		result, err = s.results.GetByID(ctx, resultID)
		if err != nil {
			return nil, wrapRepoError(err, "failed to load result")
		}
		if result == nil {
			return nil, domain.NewResultNotFoundError(resultID)
		}
		if err := s.cache.PutResult(ctx, result); err != nil {
			s.logger.Warn("Failed to cache result", zap.String("resultID", resultID), zap.Error(err))
		}
	}
	if result.UserID != userID {
		return nil, domain.NewResultNotFoundError(resultID)
	}
	return result, nil
}

func (s *resultService) Get(ctx context.Context, userID, resultID string) (*dto.ResultSummaryResponse, error) {
	result, err := s.load(ctx, userID, resultID)
	if err != nil {
		return nil, err
	}
	return dto.NewResultSummary(result), nil
}

// questionsFor returns the result's questions in session order, skipping deleted ones.
func (s *resultService) questionsFor(ctx context.Context, result *domain.QuizResult) ([]*domain.Question, error) {
	questions, err := s.questions.GetByIDs(ctx, result.QuestionIDs)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load result questions")
	}
	return questions, nil
}

func (s *resultService) Review(ctx context.Context, userID, resultID string) (*dto.ResultReviewResponse, error) {
	result, err := s.load(ctx, userID, resultID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionsFor(ctx, result)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReviewItem, 0, len(questions))
	for _, q := range questions {
		item := dto.ReviewItem{Question: q, IsSkipped: true}
		if a, ok := result.Answer(q.ID); ok && a.SelectedOption != nil {
			selected := *a.SelectedOption
			item.SelectedOption = &selected
			item.IsSkipped = false
			item.IsCorrect = selected == q.CorrectAnswer
		}
		items = append(items, item)
	}
	return &dto.ResultReviewResponse{Result: dto.NewResultSummary(result), Items: items}, nil
}

func (s *resultService) History(ctx context.Context, userID string, limit int) (*dto.ResultListResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	results, err := s.results.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list results")
	}
	out := make([]*dto.ResultSummaryResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.NewResultSummary(r))
	}
	return &dto.ResultListResponse{Results: out}, nil
}

// Analyze returns the mentor report for a result, generating it on the first request.
func (s *resultService) Analyze(ctx context.Context, userID, resultID string) (*dto.AnalysisResponse, error) {
	result, err := s.load(ctx, userID, resultID)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.GetAnalysis(ctx, resultID); err == nil {
		cached.Cached = true
		return cached, nil
	} else if !errors.Is(err, ErrNotCached) {
		s.logger.Warn("Analysis cache read failed", zap.String("resultID", resultID), zap.Error(err))
	}

	if s.analyzer == nil {
		return nil, domain.NewLLMServiceError(errors.New("performance analysis is not configured"))
	}

	questions, err := s.questionsFor(ctx, result)
	if err != nil {
		return nil, err
	}
	entries := performanceEntries(result, questions)
	if len(entries) == 0 {
		return nil, domain.NewInvalidInputError("result has no questions to analyze")
	}

	report, err := s.analyzer.AnalyzePerformance(ctx, entries)
	if s.metrics != nil {
		s.metrics.LLMCall("analyze", err)
	}
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}

	resp := &dto.AnalysisResponse{ResultID: resultID, Report: report, GeneratedAt: s.now()}
	if report.Complete() {
		if err := s.cache.PutAnalysis(ctx, resp); err != nil {
			s.logger.Warn("Failed to cache analysis", zap.String("resultID", resultID), zap.Error(err))
		}
	}
	return resp, nil
}

func performanceEntries(result *domain.QuizResult, questions []*domain.Question) []domain.PerformanceEntry {
	entries := make([]domain.PerformanceEntry, 0, len(questions))
	for _, q := range questions {
		entry := domain.PerformanceEntry{Question: q.Question, Category: q.Category}
		if a, ok := result.Answer(q.ID); ok {
			entry.TimeTaken = a.TimeTaken
			entry.IsCorrect = a.SelectedOption != nil && *a.SelectedOption == q.CorrectAnswer
		}
		entries = append(entries, entry)
	}
	return entries
}
