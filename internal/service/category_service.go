package service

import (
	"context"
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/validation"

	"go.uber.org/zap"
)

// CategoryService manages practice categories and the dashboard tiles.
type CategoryService interface {
	EnsureDefaults(ctx context.Context) error
	List(ctx context.Context) ([]*domain.Category, error)
	Summaries(ctx context.Context) ([]*domain.CategorySummary, error)
	Save(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error)
	SetEnabled(ctx context.Context, id string, enabled bool) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	// Resolve checks that a session may start on id. It returns nil for the
	// all-categories sentinel.
	Resolve(ctx context.Context, id string) (*domain.Category, error)
}

type categoryService struct {
	categories domain.CategoryRepository
	questions  domain.QuestionRepository
	tx         domain.TransactionManager
	validator  *validation.Validator
	logger     *zap.Logger
}

func NewCategoryService(
	categories domain.CategoryRepository,
	questions domain.QuestionRepository,
	tx domain.TransactionManager,
	logger *zap.Logger,
) CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &categoryService{
		categories: categories,
		questions:  questions,
		tx:         tx,
		validator:  validation.NewValidator(),
		logger:     logger,
	}
}

// EnsureDefaults writes the starter categories when none exist.
func (s *categoryService) EnsureDefaults(ctx context.Context) error {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return domain.NewInternalError("failed to list categories", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := domain.DefaultCategories()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, c := range defaults {
			if err := s.categories.Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.NewInternalError("failed to seed default categories", err)
	}
	s.logger.Info("Seeded default categories", zap.Int("count", len(defaults)))
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

// Summaries returns the enabled categories with their topics and question counts.
func (s *categoryService) Summaries(ctx context.Context) ([]*domain.CategorySummary, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.questions.CountByCategory(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to count questions", err)
	}

	summaries := make([]*domain.CategorySummary, 0, len(categories))
	for _, c := range categories {
		if !c.Enabled {
			continue
		}
		types, err := s.questions.DistinctTypes(ctx, c.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to list question types", err)
		}
		summaries = append(summaries, &domain.CategorySummary{
			Category:      *c,
			Types:         types,
			QuestionCount: counts[c.ID],
		})
	}
	return summaries, nil
}

func (s *categoryService) Save(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	req.ID = strings.ToLower(strings.TrimSpace(req.ID))
	if errs := s.validator.ValidateCategoryRequest(req); len(errs) > 0 {
		return nil, errs
	}

	c, err := s.categories.GetByID(ctx, req.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load category", err)
	}
	if c == nil {
		c = &domain.Category{ID: req.ID, Enabled: true}
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Icon = strings.TrimSpace(req.Icon)
	c.MaxQuestions = req.MaxQuestions
	if req.Enabled != nil {
		c.Enabled = *req.Enabled
	}

	if err := s.categories.Save(ctx, c); err != nil {
		return nil, domain.NewInternalError("failed to save category", err)
	}
	return c, nil
}

func (s *categoryService) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.Category, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Enabled = enabled
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, domain.NewInternalError("failed to save category", err)
	}
	s.logger.Info("Category status changed", zap.String("category", id), zap.Bool("enabled", enabled))
	return c, nil
}

// Delete removes the category. Its questions stay in the bank.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return wrapRepoError(err, "failed to delete category")
	}
	return nil
}

func (s *categoryService) Resolve(ctx context.Context, id string) (*domain.Category, error) {
	if id == "" || id == domain.AllCategories {
		return nil, nil
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load category", err)
	}
	if c == nil || !c.Enabled {
		return nil, domain.NewInvalidCategoryError(id)
	}
	return c, nil
}

func (s *categoryService) get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load category", err)
	}
	if c == nil {
		return nil, domain.NewCategoryNotFoundError(id)
	}
	return c, nil
}
