package dto

import "gyandeep/internal/domain"

// QuestionRequest creates or replaces a question in the bank.
// @Description Request body for creating or updating a question
type QuestionRequest struct {
	Category      string   `json:"category" example:"gk"`
	Type          string   `json:"type,omitempty" example:"history"`
	Question      string   `json:"question" example:"Which is the highest peak in the world?"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer" example:"0"`
	Explanation   string   `json:"explanation"`
	Hint          string   `json:"hint,omitempty"`
	Difficulty    string   `json:"difficulty" example:"Easy"`
	TimeLimit     int      `json:"timeLimit,omitempty"`
}

// ToDomain copies the request into a question. Options beyond four are ignored.
func (r QuestionRequest) ToDomain(id string) *domain.Question {
	q := &domain.Question{
		ID:            id,
		Category:      r.Category,
		Type:          r.Type,
		Question:      r.Question,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
		Hint:          r.Hint,
		Difficulty:    domain.ParseDifficulty(r.Difficulty),
		TimeLimit:     r.TimeLimit,
	}
	copy(q.Options[:], r.Options)
	return q
}

// QuestionListResponse is a page of the bank.
type QuestionListResponse struct {
	Questions []*domain.Question `json:"questions"`
	Total     int                `json:"total"`
}

// GenerateQuestionsRequest asks the AI generator for new questions.
// @Description Request body for AI question generation
type GenerateQuestionsRequest struct {
	Topic      string `json:"topic" example:"Nepal constitution"`
	Count      int    `json:"count,omitempty" example:"5"`
	Difficulty string `json:"difficulty,omitempty" example:"Medium"`
}

// GenerateQuestionsResponse lists the saved questions and how many were dropped as duplicates.
type GenerateQuestionsResponse struct {
	Questions  []*domain.Question `json:"questions"`
	Generated  int                `json:"generated"`
	Duplicates int                `json:"duplicates"`
}

// ImportResponse summarises a CSV import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// WipeResponse reports how many questions were removed.
type WipeResponse struct {
	Deleted int64 `json:"deleted"`
}
