package handler_test

import (
	"context"
	"errors"
	"io"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/service"

	"github.com/stretchr/testify/mock"
)

// stubAuth accepts the tokens "student" and "admin".
type stubAuth struct{}

func (stubAuth) IssueTokens(_ context.Context, user *domain.UserProfile) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{AccessToken: "access-" + user.ID, RefreshToken: "refresh-" + user.ID, TokenType: "Bearer", User: user}, nil
}

func (stubAuth) ValidateJWT(_ context.Context, token string) (*dto.AuthClaims, error) {
	switch token {
	case "student":
		return &dto.AuthClaims{UserID: "u1", TokenType: "access"}, nil
	case "admin":
		return &dto.AuthClaims{UserID: "admin", IsAdmin: true, TokenType: "access"}, nil
	}
	return nil, errors.New("invalid token")
}

func (stubAuth) RefreshToken(_ context.Context, token string) (*dto.AuthResponse, error) {
	if token != "good-refresh" {
		return nil, domain.NewUnauthorizedError("invalid refresh token")
	}
	return &dto.AuthResponse{AccessToken: "new-access", RefreshToken: "new-refresh", TokenType: "Bearer"}, nil
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Login(ctx context.Context, req dto.LoginRequest) (*domain.UserProfile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserService) AdminLogin(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdatePreferences(ctx context.Context, userID string, settings domain.QuizSettings) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserService) RecordResult(ctx context.Context, result *domain.QuizResult) (*domain.UserProfile, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserProfile), args.Error(1)
}

type MockSessionService struct{ mock.Mock }

func (m *MockSessionService) sessionResult(args mock.Arguments) (*dto.SessionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}

func (m *MockSessionService) Start(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, req))
}

func (m *MockSessionService) Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, sessionID))
}

func (m *MockSessionService) Answer(ctx context.Context, userID, sessionID string, option *int) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, sessionID, option))
}

func (m *MockSessionService) Next(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, sessionID))
}

func (m *MockSessionService) Previous(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, sessionID))
}

func (m *MockSessionService) ToggleReview(ctx context.Context, userID, sessionID string) (*dto.ToggleReviewResponse, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ToggleReviewResponse), args.Error(1)
}

func (m *MockSessionService) Submit(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(ctx, userID, sessionID))
}

func (m *MockSessionService) Exit(ctx context.Context, userID, sessionID string) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

func (m *MockSessionService) Run(ctx context.Context) { m.Called(ctx) }

func (m *MockSessionService) Shutdown() { m.Called() }

func (m *MockSessionService) ActiveSessions() int { return m.Called().Int(0) }

type MockResultService struct{ mock.Mock }

func (m *MockResultService) Save(ctx context.Context, result *domain.QuizResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockResultService) Get(ctx context.Context, userID, resultID string) (*dto.ResultSummaryResponse, error) {
	args := m.Called(ctx, userID, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResultSummaryResponse), args.Error(1)
}

func (m *MockResultService) Review(ctx context.Context, userID, resultID string) (*dto.ResultReviewResponse, error) {
	args := m.Called(ctx, userID, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResultReviewResponse), args.Error(1)
}

func (m *MockResultService) History(ctx context.Context, userID string, limit int) (*dto.ResultListResponse, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResultListResponse), args.Error(1)
}

func (m *MockResultService) Analyze(ctx context.Context, userID, resultID string) (*dto.AnalysisResponse, error) {
	args := m.Called(ctx, userID, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalysisResponse), args.Error(1)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) EnsureDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryService) Summaries(ctx context.Context) ([]*domain.CategorySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CategorySummary), args.Error(1)
}

func (m *MockCategoryService) Save(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.Category, error) {
	args := m.Called(ctx, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryService) Resolve(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

type MockQuestionService struct{ mock.Mock }

func (m *MockQuestionService) List(ctx context.Context, filter domain.QuestionFilter) (*dto.QuestionListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionListResponse), args.Error(1)
}

func (m *MockQuestionService) Get(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Create(ctx context.Context, req dto.QuestionRequest) (*domain.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id string, req dto.QuestionRequest) (*domain.Question, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuestionService) DeleteAll(ctx context.Context) (*dto.WipeResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WipeResponse), args.Error(1)
}

func (m *MockQuestionService) Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, string(data))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportResponse), args.Error(1)
}

func (m *MockQuestionService) Export(ctx context.Context, w io.Writer, filter domain.QuestionFilter) error {
	args := m.Called(ctx, filter)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(1)
}

type MockAIService struct{ mock.Mock }

func (m *MockAIService) Generate(ctx context.Context, req dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerateQuestionsResponse), args.Error(1)
}

func (m *MockAIService) GenerateBatch(ctx context.Context, topics []string, perTopic int) ([]service.TopicReport, error) {
	args := m.Called(ctx, topics, perTopic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TopicReport), args.Error(1)
}

type MockLeaderboardService struct{ mock.Mock }

func (m *MockLeaderboardService) Record(ctx context.Context, result *domain.QuizResult, user *domain.UserProfile) error {
	return m.Called(ctx, result, user).Error(0)
}

func (m *MockLeaderboardService) Top(ctx context.Context, scope domain.LeaderboardScope, category string, limit int) (*domain.Leaderboard, error) {
	args := m.Called(ctx, scope, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardService) SeedMock(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
