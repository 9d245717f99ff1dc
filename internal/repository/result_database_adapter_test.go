package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gyandeep/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resultRowColumns = []string{"id", "session_id", "user_id", "quiz_id", "category", "topic", "score", "total_questions", "correct_count", "wrong_count", "skipped_count", "time_spent", "taken_at", "answers_json", "settings_json", "question_ids", "auto_submitted"}

func TestResultSave(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewResultDatabaseAdapter(db)

	opt := 1
	res := &domain.QuizResult{
		ID:             "r1",
		SessionID:      "s1",
		QuizID:         "quiz-1",
		Category:       "gk",
		Score:          2,
		TotalQuestions: 2,
		CorrectCount:   1,
		SkippedCount:   1,
		TimeSpent:      40,
		Date:           time.Now(),
		Answers:        []domain.UserAnswer{{QuestionID: "q1", SelectedOption: &opt, TimeTaken: 12}},
		Settings:       domain.DefaultQuizSettings(),
		QuestionIDs:    []string{"q1", "q2"},
		AutoSubmitted:  true,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quiz_results")).
		WithArgs("r1", "s1", "", "quiz-1", "gk", "", 2, 2, 1, 0, 1, 40, sqlmock.AnyArg(),
			`[{"questionId":"q1","selectedOption":1,"timeTaken":12}]`,
			`{"questionsPerQuiz":10,"timerMode":"per_question","timerValue":30}`,
			`["q1","q2"]`, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), res))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultGetByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewResultDatabaseAdapter(db)
	now := time.Now()

	rows := sqlmock.NewRows(resultRowColumns).AddRow(
		"r1", nil, "u1", "quiz-1", "banking", nil, 4, 3, 2, 1, 0, 55, now,
		`[{"questionId":"q1","selectedOption":null,"timeTaken":3}]`,
		`{"questionsPerQuiz":3,"timerMode":"none","timerValue":0}`,
		`["q1","q2","q3"]`, 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM quiz_results WHERE id = ?")).
		WithArgs("r1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", got.SessionID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 67, got.Accuracy())
	require.Len(t, got.Answers, 1)
	assert.Nil(t, got.Answers[0].SelectedOption)
	assert.Equal(t, domain.TimerNone, got.Settings.TimerMode)
	assert.Equal(t, []string{"q1", "q2", "q3"}, got.QuestionIDs)
	assert.False(t, got.AutoSubmitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultListByUser_AppliesLimit(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewResultDatabaseAdapter(db)
	now := time.Now()

	rows := sqlmock.NewRows(resultRowColumns)
	for _, id := range []string{"r3", "r2", "r1"} {
		rows.AddRow(id, "", "u1", "quiz", "gk", "", 2, 1, 1, 0, 0, 10, now, `[]`, `{}`, `[]`, 0)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM quiz_results WHERE user_id = ? ORDER BY taken_at DESC")).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
