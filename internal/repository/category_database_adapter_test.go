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

var categoryRowColumns = []string{"id", "name", "icon", "enabled", "max_questions", "created_at", "updated_at"}

func TestCategoryList(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewCategoryDatabaseAdapter(db)
	now := time.Now()

	rows := sqlmock.NewRows(categoryRowColumns).
		AddRow("gk", "General Knowledge", "globe", 1, 0, now, now).
		AddRow("iq", "IQ & Reasoning", nil, 0, 25, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, icon, enabled, max_questions, created_at, updated_at FROM categories")).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Enabled)
	assert.Equal(t, "globe", got[0].Icon)
	assert.False(t, got[1].Enabled)
	assert.Equal(t, "", got[1].Icon)
	assert.Equal(t, 25, got[1].MaxQuestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryGetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewCategoryDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE id = ?")).
		WithArgs("nepali").
		WillReturnRows(sqlmock.NewRows(categoryRowColumns))

	got, err := repo.GetByID(context.Background(), "nepali")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategorySave_UpdatesExisting(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewCategoryDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET")).
		WithArgs("Banking", "banknote", 0, 10, sqlmock.AnyArg(), "banking").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &domain.Category{ID: "banking", Name: "Banking", Icon: "banknote", Enabled: false, MaxQuestions: 10}
	require.NoError(t, repo.Save(context.Background(), c))
	assert.False(t, c.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategorySave_InsertsWhenMissing(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewCategoryDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("english", "English", "languages", 1, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c := &domain.Category{ID: "english", Name: "English", Icon: "languages", Enabled: true}
	require.NoError(t, repo.Save(context.Background(), c))
	assert.False(t, c.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryDelete_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewCategoryDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = ?")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeCategoryNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
