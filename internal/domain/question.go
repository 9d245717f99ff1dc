package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

const (
	// AllCategories selects questions from every category.
	AllCategories = "all"
	// AIGeneratedCategory holds questions produced by the generator.
	AIGeneratedCategory = "ai_generated"
	// DefaultImportCategory is used for imported rows without a category.
	DefaultImportCategory = "gk"
	// AIQuestionIDPrefix marks generated question identifiers.
	AIQuestionIDPrefix = "ai-"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty matches case-insensitively and falls back to Medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Question is a single multiple-choice item of the bank.
type Question struct {
	ID            string              `json:"id"`
	Category      string              `json:"category"`
	Type          string              `json:"type,omitempty"`
	Question      string              `json:"question"`
	Options       [OptionCount]string `json:"options"`
	CorrectAnswer int                 `json:"correctAnswer"`
	Explanation   string              `json:"explanation"`
	Hint          string              `json:"hint,omitempty"`
	Difficulty    Difficulty          `json:"difficulty"`
	TimeLimit     int                 `json:"timeLimit,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// IsAIGenerated reports whether the question came from the generator.
func (q *Question) IsAIGenerated() bool {
	return strings.HasPrefix(q.ID, AIQuestionIDPrefix)
}

// Validate checks the fields an admin or importer must supply.
func (q *Question) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(q.Question) == "" {
		errs = append(errs, NewMissingFieldError("question"))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			errs = append(errs, NewMissingFieldError(fmt.Sprintf("options[%d]", i)))
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		errs = append(errs, NewOutOfRangeError("correctAnswer", q.CorrectAnswer, 0, OptionCount-1))
	}
	if strings.TrimSpace(q.Category) == "" {
		errs = append(errs, NewMissingFieldError("category"))
	}
	if q.TimeLimit < 0 {
		errs = append(errs, ValidationError{Field: "timeLimit", Message: "must not be negative", Value: q.TimeLimit})
	}
	return errs
}

// QuestionFilter narrows the catalog. Empty fields match everything.
type QuestionFilter struct {
	Category string
	Type     string
	Search   string
}

// Matches applies the filter the same way the repositories do.
func (f QuestionFilter) Matches(q *Question) bool {
	if f.Category != "" && f.Category != AllCategories && q.Category != f.Category {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(q.Question), term) ||
			strings.Contains(strings.ToLower(q.Type), term) ||
			strings.Contains(strings.ToLower(q.Category), term)
	}
	return true
}
