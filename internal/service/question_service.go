package service

import (
	"context"
	"io"
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/util"
	"gyandeep/internal/validation"

	"go.uber.org/zap"
)

// QuestionService is the admin surface of the question bank.
type QuestionService interface {
	List(ctx context.Context, filter domain.QuestionFilter) (*dto.QuestionListResponse, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, req dto.QuestionRequest) (*domain.Question, error)
	Update(ctx context.Context, id string, req dto.QuestionRequest) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (*dto.WipeResponse, error)
	Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error)
	Export(ctx context.Context, w io.Writer, filter domain.QuestionFilter) error
}

type questionService struct {
	questions domain.QuestionRepository
	tx        domain.TransactionManager
	validator *validation.Validator
	logger    *zap.Logger
}

func NewQuestionService(questions domain.QuestionRepository, tx domain.TransactionManager, logger *zap.Logger) QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &questionService{
		questions: questions,
		tx:        tx,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

func (s *questionService) List(ctx context.Context, filter domain.QuestionFilter) (*dto.QuestionListResponse, error) {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("failed to list questions", err)
	}
	return &dto.QuestionListResponse{Questions: questions, Total: len(questions)}, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*domain.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	return q, nil
}

func (s *questionService) Create(ctx context.Context, req dto.QuestionRequest) (*domain.Question, error) {
	req = normalizeQuestionRequest(req)
	if errs := s.validator.ValidateQuestionRequest(req); len(errs) > 0 {
		return nil, errs
	}
	q := req.ToDomain(util.NewULID())
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, domain.NewInternalError("failed to create question", err)
	}
	s.logger.Info("Question created", zap.String("questionID", q.ID), zap.String("category", q.Category))
	return q, nil
}

func (s *questionService) Update(ctx context.Context, id string, req dto.QuestionRequest) (*domain.Question, error) {
	req = normalizeQuestionRequest(req)
	if errs := s.validator.ValidateQuestionRequest(req); len(errs) > 0 {
		return nil, errs
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q := req.ToDomain(id)
	q.CreatedAt = existing.CreatedAt
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, wrapRepoError(err, "failed to update question")
	}
	return q, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return wrapRepoError(err, "failed to delete question")
	}
	s.logger.Info("Question deleted", zap.String("questionID", id))
	return nil
}

func (s *questionService) DeleteAll(ctx context.Context) (*dto.WipeResponse, error) {
	n, err := s.questions.DeleteAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to wipe question bank", err)
	}
	s.logger.Warn("Question bank wiped", zap.Int64("deleted", n))
	return &dto.WipeResponse{Deleted: n}, nil
}

// Import saves every parsed row in one transaction.
func (s *questionService) Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	questions, skipped, err := ParseQuestionsCSV(r)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return &dto.ImportResponse{Imported: 0, Skipped: skipped}, nil
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.questions.CreateBatch(ctx, questions)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to import questions", err)
	}
	s.logger.Info("Questions imported", zap.Int("imported", len(questions)), zap.Int("skipped", skipped))
	return &dto.ImportResponse{Imported: len(questions), Skipped: skipped}, nil
}

func (s *questionService) Export(ctx context.Context, w io.Writer, filter domain.QuestionFilter) error {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return domain.NewInternalError("failed to list questions", err)
	}
	if err := WriteQuestionsCSV(w, questions); err != nil {
		return domain.NewInternalError("failed to write csv", err)
	}
	return nil
}

func normalizeQuestionRequest(req dto.QuestionRequest) dto.QuestionRequest {
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Type = strings.TrimSpace(req.Type)
	req.Question = strings.TrimSpace(req.Question)
	options := make([]string, len(req.Options))
	for i, opt := range req.Options {
		options[i] = strings.TrimSpace(opt)
	}
	req.Options = options
	return req
}
