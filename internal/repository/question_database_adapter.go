package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const questionColumns = "id, category, question_type, question, options_json, correct_answer, explanation, hint, difficulty, time_limit, created_at, updated_at"

type QuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// List returns the questions matching filter, oldest first.
func (r *QuestionDatabaseAdapter) List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.Category != "" && filter.Category != domain.AllCategories {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Type != "" {
		where = append(where, "question_type = ?")
		args = append(args, filter.Type)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		where = append(where, "(LOWER(question) LIKE ? OR LOWER(question_type) LIKE ? OR LOWER(category) LIKE ?)")
		args = append(args, like, like, like)
	}

	query := "SELECT " + questionColumns + " FROM questions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, nil
}

// GetByID returns nil, nil when the question does not exist.
func (r *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.Question
	query := "SELECT " + questionColumns + " FROM questions WHERE id = ?"
	if err := exec.GetContext(ctx, &row, exec.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

// GetByIDs returns the existing questions in the order of ids. Unknown ids are skipped.
func (r *QuestionDatabaseAdapter) GetByIDs(ctx context.Context, ids []string) ([]*domain.Question, error) {
	if len(ids) == 0 {
		return []*domain.Question{}, nil
	}
	exec := GetExecutor(ctx, r.db)

	byID := make(map[string]*domain.Question, len(ids))
	for start := 0; start < len(ids); start += maxInClause {
		end := start + maxInClause
		if end > len(ids) {
			end = len(ids)
		}
		query, args, err := sqlx.In("SELECT "+questionColumns+" FROM questions WHERE id IN (?)", ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to build question lookup: %w", err)
		}
		var rows []models.Question
		if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to get questions by id: %w", err)
		}
		for i := range rows {
			byID[rows[i].ID] = toDomainQuestion(&rows[i])
		}
	}

	questions := make([]*domain.Question, 0, len(byID))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// Create persists q. CreatedAt and UpdatedAt are filled when zero.
func (r *QuestionDatabaseAdapter) Create(ctx context.Context, q *domain.Question) error {
	return r.insert(ctx, GetExecutor(ctx, r.db), q)
}

// CreateBatch inserts every question through the same executor; wrap it in a
// transaction to make the batch atomic.
func (r *QuestionDatabaseAdapter) CreateBatch(ctx context.Context, qs []*domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	for _, q := range qs {
		if err := r.insert(ctx, exec, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *QuestionDatabaseAdapter) insert(ctx context.Context, exec DBTX, q *domain.Question) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = q.CreatedAt
	}
	options, err := models.StringSlice(q.Options[:]).Value()
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	query := `INSERT INTO questions (` + questionColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, exec.Rebind(query),
		q.ID, q.Category, q.Type, q.Question, options, q.CorrectAnswer,
		q.Explanation, q.Hint, string(q.Difficulty), q.TimeLimit, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question %s: %w", q.ID, err)
	}
	return nil
}

// Update overwrites every editable field of q.
func (r *QuestionDatabaseAdapter) Update(ctx context.Context, q *domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	q.UpdatedAt = time.Now()
	options, err := models.StringSlice(q.Options[:]).Value()
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	query := `UPDATE questions SET category = ?, question_type = ?, question = ?, options_json = ?,
              correct_answer = ?, explanation = ?, hint = ?, difficulty = ?, time_limit = ?, updated_at = ?
              WHERE id = ?`
	res, err := exec.ExecContext(ctx, exec.Rebind(query),
		q.Category, q.Type, q.Question, options, q.CorrectAnswer,
		q.Explanation, q.Hint, string(q.Difficulty), q.TimeLimit, q.UpdatedAt, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question %s: %w", q.ID, err)
	}
	return requireAffected(res, domain.NewQuestionNotFoundError(q.ID))
}

func (r *QuestionDatabaseAdapter) Delete(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	res, err := exec.ExecContext(ctx, exec.Rebind("DELETE FROM questions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	return requireAffected(res, domain.NewQuestionNotFoundError(id))
}

// DeleteAll wipes the bank and returns the number of removed questions.
func (r *QuestionDatabaseAdapter) DeleteAll(ctx context.Context) (int64, error) {
	exec := GetExecutor(ctx, r.db)
	res, err := exec.ExecContext(ctx, "DELETE FROM questions")
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// DistinctTypes lists the non-empty topics of a category, sorted.
// domain.AllCategories or "" spans every category.
func (r *QuestionDatabaseAdapter) DistinctTypes(ctx context.Context, category string) ([]string, error) {
	exec := GetExecutor(ctx, r.db)

	query := "SELECT DISTINCT question_type FROM questions WHERE question_type IS NOT NULL"
	var args []interface{}
	if category != "" && category != domain.AllCategories {
		query += " AND category = ?"
		args = append(args, category)
	}

	var raw []sql.NullString
	if err := exec.SelectContext(ctx, &raw, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list question types: %w", err)
	}

	types := make([]string, 0, len(raw))
	for _, t := range raw {
		if s := strings.TrimSpace(t.String); s != "" {
			types = append(types, s)
		}
	}
	sort.Strings(types)
	return types, nil
}

type categoryCount struct {
	Category string `db:"category"`
	Total    int    `db:"total"`
}

func (r *QuestionDatabaseAdapter) CountByCategory(ctx context.Context) (map[string]int, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []categoryCount
	query := "SELECT category, COUNT(*) AS total FROM questions GROUP BY category"
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
