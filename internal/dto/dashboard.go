package dto

import "gyandeep/internal/domain"

// DashboardResponse is the landing page after login.
// @Description Dashboard with the profile, categories and recent results
type DashboardResponse struct {
	User          *domain.UserProfile       `json:"user"`
	Categories    []*domain.CategorySummary `json:"categories"`
	RecentResults []*ResultSummaryResponse  `json:"recentResults"`
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	ID           string `json:"id" example:"gk"`
	Name         string `json:"name" example:"General Knowledge"`
	Icon         string `json:"icon" example:"globe"`
	Enabled      *bool  `json:"enabled,omitempty"`
	MaxQuestions int    `json:"maxQuestions,omitempty"`
}

// CategoryStatusRequest toggles a category on or off.
type CategoryStatusRequest struct {
	Enabled bool `json:"enabled"`
}

// HealthResponse reports the status of the backing stores.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
