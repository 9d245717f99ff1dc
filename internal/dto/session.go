package dto

import "gyandeep/internal/domain"

// StartSessionRequest starts a quiz session. Settings fall back to the
// user's saved preferences when omitted.
// @Description Request body for starting a quiz session
type StartSessionRequest struct {
	Category string               `json:"category" example:"gk"`
	Topic    string               `json:"topic,omitempty" example:"history"`
	Settings *domain.QuizSettings `json:"settings,omitempty"`
}

// AnswerRequest records an option for the current question; null clears the selection.
// @Description Request body for answering the current question
type AnswerRequest struct {
	Option *int `json:"option" example:"2"`
}

// QuestionView is a question as shown during a live session.
// It never carries the correct answer or the explanation.
type QuestionView struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Type       string   `json:"type,omitempty"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Hint       string   `json:"hint,omitempty"`
	Difficulty string   `json:"difficulty"`
	TimeLimit  int      `json:"timeLimit,omitempty"`
}

// SessionResponse is the state of a session after every operation.
// @Description Quiz session state
type SessionResponse struct {
	SessionID      string                 `json:"sessionId"`
	Status         string                 `json:"status"`
	Category       string                 `json:"category"`
	Topic          string                 `json:"topic,omitempty"`
	Settings       domain.QuizSettings    `json:"settings"`
	Position       int                    `json:"position"`
	Total          int                    `json:"total"`
	Question       *QuestionView          `json:"question,omitempty"`
	SelectedOption *int                   `json:"selectedOption"`
	Answered       []int                  `json:"answered"`
	Review         []int                  `json:"review"`
	Elapsed        int                    `json:"elapsed"`
	Countdown      int                    `json:"countdown"`
	ReadyToSubmit  bool                   `json:"readyToSubmit,omitempty"`
	Result         *ResultSummaryResponse `json:"result,omitempty"`
}

// ToggleReviewResponse reports the new review flag of the current question.
type ToggleReviewResponse struct {
	Flagged bool             `json:"flagged"`
	Session *SessionResponse `json:"session"`
}

func NewQuestionView(q *domain.Question) *QuestionView {
	if q == nil {
		return nil
	}
	return &QuestionView{
		ID:         q.ID,
		Category:   q.Category,
		Type:       q.Type,
		Question:   q.Question,
		Options:    q.Options[:],
		Hint:       q.Hint,
		Difficulty: string(q.Difficulty),
		TimeLimit:  q.TimeLimit,
	}
}
