package models

import (
	"database/sql"
	"time"

	"gyandeep/internal/domain"
)

// Columns that may hold an empty string are nullable because Oracle
// stores '' as NULL.

type Category struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Icon         sql.NullString `db:"icon"`
	Enabled      int            `db:"enabled"`
	MaxQuestions int            `db:"max_questions"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type Question struct {
	ID            string         `db:"id"`
	Category      string         `db:"category"`
	QuestionType  sql.NullString `db:"question_type"`
	Question      string         `db:"question"`
	Options       StringSlice    `db:"options_json"`
	CorrectAnswer int            `db:"correct_answer"`
	Explanation   sql.NullString `db:"explanation"`
	Hint          sql.NullString `db:"hint"`
	Difficulty    string         `db:"difficulty"`
	TimeLimit     int            `db:"time_limit"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type User struct {
	ID             string                    `db:"id"`
	Name           string                    `db:"name"`
	Email          string                    `db:"email"`
	ExamPreference sql.NullString            `db:"exam_preference"`
	TotalQuizzes   int                       `db:"total_quizzes"`
	Accuracy       int                       `db:"accuracy"`
	RankPosition   int                       `db:"rank_position"`
	Streak         int                       `db:"streak"`
	MaxStreak      int                       `db:"max_streak"`
	Badges         StringSlice               `db:"badges_json"`
	IsAdmin        int                       `db:"is_admin"`
	TimeSpent      int                       `db:"time_spent"`
	Preferences    JSON[domain.QuizSettings] `db:"preferences"`
	LastActive     time.Time                 `db:"last_active"`
	CreatedAt      time.Time                 `db:"created_at"`
}

type QuizResult struct {
	ID             string                    `db:"id"`
	SessionID      sql.NullString            `db:"session_id"`
	UserID         sql.NullString            `db:"user_id"`
	QuizID         string                    `db:"quiz_id"`
	Category       string                    `db:"category"`
	Topic          sql.NullString            `db:"topic"`
	Score          int                       `db:"score"`
	TotalQuestions int                       `db:"total_questions"`
	CorrectCount   int                       `db:"correct_count"`
	WrongCount     int                       `db:"wrong_count"`
	SkippedCount   int                       `db:"skipped_count"`
	TimeSpent      int                       `db:"time_spent"`
	TakenAt        time.Time                 `db:"taken_at"`
	Answers        JSON[[]domain.UserAnswer] `db:"answers_json"`
	Settings       JSON[domain.QuizSettings] `db:"settings_json"`
	QuestionIDs    StringSlice               `db:"question_ids"`
	AutoSubmitted  int                       `db:"auto_submitted"`
}
