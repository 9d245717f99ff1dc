package domain

import (
	"math"
	"time"
)

// PointsPerCorrect is the fixed scoring weight of a correct answer.
const PointsPerCorrect = 2

// UserAnswer is the recorded selection for one question. A nil
// SelectedOption means the user explicitly chose no option.
type UserAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption *int   `json:"selectedOption"`
	TimeTaken      int    `json:"timeTaken"`
}

// QuizResult is the summary produced once a session terminates.
type QuizResult struct {
	ID             string       `json:"id"`
	SessionID      string       `json:"sessionId,omitempty"`
	UserID         string       `json:"userId,omitempty"`
	QuizID         string       `json:"quizId"`
	Category       string       `json:"category"`
	Topic          string       `json:"topic,omitempty"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	CorrectCount   int          `json:"correctCount"`
	WrongCount     int          `json:"wrongCount"`
	SkippedCount   int          `json:"skippedCount"`
	TimeSpent      int          `json:"timeSpent"`
	Date           time.Time    `json:"date"`
	Answers        []UserAnswer `json:"answers"`
	Settings       QuizSettings `json:"settings"`
	QuestionIDs    []string     `json:"questionIds"`
	AutoSubmitted  bool         `json:"autoSubmitted"`
}

// Accuracy is the rounded percentage of correct answers.
func (r *QuizResult) Accuracy() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectCount) / float64(r.TotalQuestions) * 100))
}

// Answer returns the recorded answer for a question, if any.
func (r *QuizResult) Answer(questionID string) (UserAnswer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return UserAnswer{}, false
}
