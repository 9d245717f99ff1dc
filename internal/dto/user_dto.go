package dto

import "gyandeep/internal/domain"

// LoginRequest is the mocked local login form.
// @Description Request body for logging in
type LoginRequest struct {
	Name           string `json:"name" example:"Sita Sharma"`
	Email          string `json:"email" example:"sita@example.com"`
	ExamPreference string `json:"examPreference" example:"Loksewa"`
}

// RefreshTokenRequest represents the request body for the refresh token endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the issued token pair and the profile.
// @Description Tokens issued after login or refresh
type AuthResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresIn    int64               `json:"expires_in"`
	TokenType    string              `json:"token_type"`
	User         *domain.UserProfile `json:"user,omitempty"`
}

// UpdatePreferencesRequest replaces the saved quiz settings.
type UpdatePreferencesRequest struct {
	QuestionsPerQuiz int    `json:"questionsPerQuiz" example:"10"`
	TimerMode        string `json:"timerMode" example:"per_question"`
	TimerValue       int    `json:"timerValue" example:"30"`
}

func (r UpdatePreferencesRequest) Settings() domain.QuizSettings {
	return domain.QuizSettings{
		QuestionsPerQuiz: r.QuestionsPerQuiz,
		TimerMode:        domain.TimerMode(r.TimerMode),
		TimerValue:       r.TimerValue,
	}
}

// UserListResponse is the admin view of all users.
type UserListResponse struct {
	Users []*domain.UserProfile `json:"users"`
}
