package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestUserService(repo *MockUserRepository, now time.Time) *userServiceImpl {
	svc := NewUserService(repo, nil).(*userServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestUserService_Login_CreatesProfile(t *testing.T) {
	repo := new(MockUserRepository)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTestUserService(repo, now)

	repo.On("GetByEmail", mock.Anything, "ram@example.com").Return(nil, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(nil)

	user, err := svc.Login(context.Background(), dto.LoginRequest{Email: " Ram@Example.com ", ExamPreference: "Loksewa"})
	require.NoError(t, err)

	assert.Equal(t, "Student", user.Name)
	assert.Equal(t, "ram@example.com", user.Email)
	assert.Equal(t, "Loksewa", user.ExamPreference)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, 1250, user.Rank)
	assert.Equal(t, []string{"First Step"}, user.Badges)
	assert.Equal(t, now, user.CreatedAt)
	repo.AssertExpectations(t)
}

func TestUserService_Login_AdminEmailGrantsAdmin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, time.Now())

	repo.On("GetByEmail", mock.Anything, "site.admin@example.com").Return(nil, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Login(context.Background(), dto.LoginRequest{Name: "Sita", Email: "site.ADMIN@example.com"})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "Sita", user.Name)
}

func TestUserService_Login_ExistingUser(t *testing.T) {
	repo := new(MockUserRepository)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestUserService(repo, now)
	existing := &domain.UserProfile{ID: "u1", Name: "Hari", Email: "hari@example.com", ExamPreference: "IOE", TotalQuizzes: 4}

	repo.On("GetByEmail", mock.Anything, "hari@example.com").Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	user, err := svc.Login(context.Background(), dto.LoginRequest{Email: "hari@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "IOE", user.ExamPreference)
	assert.Equal(t, 4, user.TotalQuizzes)
	assert.Equal(t, now, user.LastActive)
}

func TestUserService_Login_Validation(t *testing.T) {
	svc := newTestUserService(new(MockUserRepository), time.Now())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email"})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "email", verrs[0].Field)
}

func TestUserService_AdminLogin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, time.Now())

	repo.On("GetByEmail", mock.Anything, domain.AdminEmail).Return(nil, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.AdminLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, domain.AdminName, user.Name)
	assert.Equal(t, 100, user.Accuracy)
	assert.Equal(t, 1, user.Rank)
	assert.Equal(t, []string{"System Master"}, user.Badges)
}

func TestUserService_GetProfile(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		_, err := newTestUserService(repo, time.Now()).GetProfile(context.Background(), "ghost")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockUserRepository)
		dbErr := errors.New("database connection error")
		repo.On("GetByID", mock.Anything, "u1").Return(nil, dbErr)

		_, err := newTestUserService(repo, time.Now()).GetProfile(context.Background(), "u1")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeInternal, domainErr.Code)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUserService_UpdatePreferences(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, time.Now())
	settings := domain.QuizSettings{QuestionsPerQuiz: 20, TimerMode: domain.TimerTotalQuiz, TimerValue: 15}
	user := &domain.UserProfile{ID: "u1", TotalQuizzes: 3, Preferences: settings}

	repo.On("UpdatePreferences", mock.Anything, "u1", settings).Return(nil).Once()
	repo.On("GetByID", mock.Anything, "u1").Return(user, nil)

	updated, err := svc.UpdatePreferences(context.Background(), "u1", settings)
	require.NoError(t, err)
	assert.Equal(t, settings, updated.Preferences)
	assert.Equal(t, 3, updated.TotalQuizzes)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	_, err = svc.UpdatePreferences(context.Background(), "u1", domain.QuizSettings{QuestionsPerQuiz: 20, TimerMode: domain.TimerPerQuestion, TimerValue: 500})
	assert.Error(t, err)
}

func TestUserService_UpdatePreferences_UnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, time.Now())
	settings := domain.DefaultQuizSettings()

	repo.On("UpdatePreferences", mock.Anything, "ghost", settings).Return(domain.NewNotFoundError("user not found with ID: ghost"))

	_, err := svc.UpdatePreferences(context.Background(), "ghost", settings)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}

func TestUserService_RecordResult(t *testing.T) {
	repo := new(MockUserRepository)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestUserService(repo, now)
	user := &domain.UserProfile{ID: "u1", TotalQuizzes: 1, Accuracy: 50}

	repo.On("GetByID", mock.Anything, "u1").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	updated, err := svc.RecordResult(context.Background(), &domain.QuizResult{
		UserID:         "u1",
		TotalQuestions: 10,
		CorrectCount:   10,
		TimeSpent:      150,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalQuizzes)
	assert.Equal(t, 75, updated.Accuracy)
	assert.Equal(t, 3, updated.TimeSpent)
	assert.Equal(t, now, updated.LastActive)

	anonymous, err := svc.RecordResult(context.Background(), &domain.QuizResult{})
	assert.NoError(t, err)
	assert.Nil(t, anonymous)
}

// memUserRepository keeps profiles by value like a table would. The first
// GetByID blocks until gate is closed.
type memUserRepository struct {
	mu      sync.Mutex
	rows    map[string]domain.UserProfile
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (r *memUserRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	r.mu.Lock()
	row, ok := r.rows[id]
	r.mu.Unlock()
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.gate
	}
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return nil, nil
}

func (r *memUserRepository) Save(ctx context.Context, u *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = *u
	return nil
}

func (r *memUserRepository) UpdatePreferences(ctx context.Context, id string, settings domain.QuizSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return domain.NewNotFoundError("user not found with ID: " + id)
	}
	row.Preferences = settings
	r.rows[id] = row
	return nil
}

func (r *memUserRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	return nil, nil
}

func TestUserService_ConcurrentResultAndPreferencesBothPersist(t *testing.T) {
	repo := &memUserRepository{
		rows: map[string]domain.UserProfile{
			"u1": {ID: "u1", Preferences: domain.DefaultQuizSettings()},
		},
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	svc := NewUserService(repo, nil)
	settings := domain.QuizSettings{QuestionsPerQuiz: 20, TimerMode: domain.TimerTotalQuiz, TimerValue: 15}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.RecordResult(context.Background(), &domain.QuizResult{UserID: "u1", TotalQuestions: 10, CorrectCount: 6})
		assert.NoError(t, err)
	}()
	<-repo.entered

	prefsDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(prefsDone)
		_, err := svc.UpdatePreferences(context.Background(), "u1", settings)
		assert.NoError(t, err)
	}()

	select {
	case <-prefsDone:
		t.Fatal("preferences were written while a result update held the profile")
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.gate)
	wg.Wait()

	final, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, final.TotalQuizzes)
	assert.Equal(t, 60, final.Accuracy)
	assert.Equal(t, settings, final.Preferences)
}
