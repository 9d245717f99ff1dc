package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gyandeep/internal/domain"
	"gyandeep/internal/repository/models"
	"gyandeep/internal/util"
)

const resultColumns = "id, session_id, user_id, quiz_id, category, topic, score, total_questions, correct_count, wrong_count, skipped_count, time_spent, taken_at, answers_json, settings_json, question_ids, auto_submitted"

type ResultDatabaseAdapter struct {
	db DBTX
}

func NewResultDatabaseAdapter(db DBTX) domain.ResultRepository {
	return &ResultDatabaseAdapter{db: db}
}

// Save inserts a finished result. Results are immutable once stored.
func (r *ResultDatabaseAdapter) Save(ctx context.Context, res *domain.QuizResult) error {
	exec := GetExecutor(ctx, r.db)

	answers, err := models.NewJSON(res.Answers).Value()
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	settings, err := models.NewJSON(res.Settings).Value()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	questionIDs, err := models.StringSlice(res.QuestionIDs).Value()
	if err != nil {
		return fmt.Errorf("failed to encode question ids: %w", err)
	}

	query := `INSERT INTO quiz_results (` + resultColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, exec.Rebind(query),
		res.ID, res.SessionID, res.UserID, res.QuizID, res.Category, res.Topic,
		res.Score, res.TotalQuestions, res.CorrectCount, res.WrongCount, res.SkippedCount, res.TimeSpent,
		res.Date, answers, settings, questionIDs, util.BoolToInt(res.AutoSubmitted))
	if err != nil {
		return fmt.Errorf("failed to save quiz result %s: %w", res.ID, err)
	}
	return nil
}

// GetByID returns nil, nil when the result does not exist.
func (r *ResultDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.QuizResult, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.QuizResult
	query := "SELECT " + resultColumns + " FROM quiz_results WHERE id = ?"
	if err := exec.GetContext(ctx, &row, exec.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz result %s: %w", id, err)
	}
	return toDomainResult(&row), nil
}

// ListByUser returns the newest results first. A limit <= 0 returns all of them.
func (r *ResultDatabaseAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.QuizResult, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.QuizResult
	query := "SELECT " + resultColumns + " FROM quiz_results WHERE user_id = ? ORDER BY taken_at DESC, id DESC"
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	results := make([]*domain.QuizResult, len(rows))
	for i := range rows {
		results[i] = toDomainResult(&rows[i])
	}
	return results, nil
}
