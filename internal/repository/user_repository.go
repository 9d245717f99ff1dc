package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/repository/models"
	"gyandeep/internal/util"
)

const userColumns = "id, name, email, exam_preference, total_quizzes, accuracy, rank_position, streak, max_streak, badges_json, is_admin, time_spent, preferences, last_active, created_at"

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db DBTX) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

// GetByID returns nil, nil when the user does not exist.
func (r *sqlxUserRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail matches the address case-insensitively.
func (r *sqlxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.getOne(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *sqlxUserRepository) getOne(ctx context.Context, cond string, arg interface{}) (*domain.UserProfile, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.User
	query := "SELECT " + userColumns + " FROM users WHERE " + cond
	if err := exec.GetContext(ctx, &row, exec.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&row), nil
}

// Save updates the stored profile or inserts a new one. A missing ID is
// generated before the insert.
func (r *sqlxUserRepository) Save(ctx context.Context, u *domain.UserProfile) error {
	exec := GetExecutor(ctx, r.db)

	badges, err := models.StringSlice(u.Badges).Value()
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}
	prefs, err := models.NewJSON(u.Preferences).Value()
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if u.LastActive.IsZero() {
		u.LastActive = time.Now()
	}

	if u.ID != "" {
		update := `UPDATE users SET name = ?, email = ?, exam_preference = ?, total_quizzes = ?, accuracy = ?,
                   rank_position = ?, streak = ?, max_streak = ?, badges_json = ?, is_admin = ?, time_spent = ?,
                   preferences = ?, last_active = ?
                   WHERE id = ?`
		res, err := exec.ExecContext(ctx, exec.Rebind(update),
			u.Name, u.Email, u.ExamPreference, u.TotalQuizzes, u.Accuracy,
			u.Rank, u.Streak, u.MaxStreak, badges, util.BoolToInt(u.IsAdmin), u.TimeSpent,
			prefs, u.LastActive, u.ID)
		if err != nil {
			return fmt.Errorf("failed to update user %s: %w", u.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n > 0 {
			return nil
		}
	} else {
		u.ID = util.NewULID()
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	insert := `INSERT INTO users (` + userColumns + `)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, exec.Rebind(insert),
		u.ID, u.Name, strings.ToLower(strings.TrimSpace(u.Email)), u.ExamPreference, u.TotalQuizzes, u.Accuracy,
		u.Rank, u.Streak, u.MaxStreak, badges, util.BoolToInt(u.IsAdmin), u.TimeSpent,
		prefs, u.LastActive, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) UpdatePreferences(ctx context.Context, id string, settings domain.QuizSettings) error {
	exec := GetExecutor(ctx, r.db)

	prefs, err := models.NewJSON(settings).Value()
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	res, err := exec.ExecContext(ctx, exec.Rebind("UPDATE users SET preferences = ? WHERE id = ?"), prefs, id)
	if err != nil {
		return fmt.Errorf("failed to update preferences of user %s: %w", id, err)
	}
	return requireAffected(res, domain.NewNotFoundError(fmt.Sprintf("user not found with ID: %s", id)))
}

func (r *sqlxUserRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.User
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at, id"
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.UserProfile, len(rows))
	for i := range rows {
		users[i] = toDomainUser(&rows[i])
	}
	return users, nil
}
