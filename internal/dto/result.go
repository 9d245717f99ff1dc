package dto

import (
	"time"

	"gyandeep/internal/domain"
)

// ResultSummaryResponse is a finished session with its accuracy.
// @Description Quiz result summary
type ResultSummaryResponse struct {
	domain.QuizResult
	Accuracy int `json:"accuracy"`
}

func NewResultSummary(r *domain.QuizResult) *ResultSummaryResponse {
	if r == nil {
		return nil
	}
	return &ResultSummaryResponse{QuizResult: *r, Accuracy: r.Accuracy()}
}

// ReviewItem pairs a question with what the user answered.
type ReviewItem struct {
	Question       *domain.Question `json:"question"`
	SelectedOption *int             `json:"selectedOption"`
	IsCorrect      bool             `json:"isCorrect"`
	IsSkipped      bool             `json:"isSkipped"`
}

// ResultReviewResponse is the post-quiz answer review.
// @Description Per-question review of a finished quiz
type ResultReviewResponse struct {
	Result *ResultSummaryResponse `json:"result"`
	Items  []ReviewItem           `json:"items"`
}

// ResultListResponse is a user's result history, newest first.
type ResultListResponse struct {
	Results []*ResultSummaryResponse `json:"results"`
}

// AnalysisResponse wraps the AI report for a result.
type AnalysisResponse struct {
	ResultID    string                   `json:"resultId"`
	Report      *domain.AIAnalysisReport `json:"report"`
	GeneratedAt time.Time                `json:"generatedAt"`
	Cached      bool                     `json:"cached"`
}
