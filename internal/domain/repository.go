package domain

import (
	"context"
)

// QuestionRepository is the persistent question bank.
type QuestionRepository interface {
	List(ctx context.Context, filter QuestionFilter) ([]*Question, error)
	GetByID(ctx context.Context, id string) (*Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Question, error)
	Create(ctx context.Context, q *Question) error
	CreateBatch(ctx context.Context, qs []*Question) error
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	DistinctTypes(ctx context.Context, category string) ([]string, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

type ResultRepository interface {
	Save(ctx context.Context, r *QuizResult) error
	GetByID(ctx context.Context, id string) (*QuizResult, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*QuizResult, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	Save(ctx context.Context, u *UserProfile) error
	// UpdatePreferences writes only the stored quiz settings of the user.
	UpdatePreferences(ctx context.Context, id string, settings QuizSettings) error
	List(ctx context.Context) ([]*UserProfile, error)
}

// TransactionManager runs fn inside one database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
