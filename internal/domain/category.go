package domain

import (
	"strings"
	"time"
)

// Category is a practice area shown on the dashboard.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon"`
	Enabled      bool      `json:"enabled"`
	MaxQuestions int       `json:"maxQuestions,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *Category) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(c.ID) == "" {
		errs = append(errs, NewMissingFieldError("id"))
	} else if c.ID == AllCategories {
		errs = append(errs, ValidationError{Field: "id", Message: "reserved identifier", Value: c.ID})
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	if c.MaxQuestions < 0 {
		errs = append(errs, ValidationError{Field: "maxQuestions", Message: "must not be negative", Value: c.MaxQuestions})
	}
	return errs
}

// CategorySummary is a dashboard tile: the category plus the topics it offers.
type CategorySummary struct {
	Category
	Types         []string `json:"types"`
	QuestionCount int      `json:"questionCount"`
}

// DefaultCategories is the starter set written into an empty bank.
func DefaultCategories() []*Category {
	return []*Category{
		{ID: "loksewa", Name: "Loksewa Aayog", Icon: "landmark", Enabled: true},
		{ID: "banking", Name: "Banking", Icon: "banknote", Enabled: true},
		{ID: "gk", Name: "General Knowledge", Icon: "globe", Enabled: true},
		{ID: "iq", Name: "IQ & Reasoning", Icon: "brain", Enabled: true},
		{ID: "english", Name: "English", Icon: "languages", Enabled: true},
		{ID: "nepali", Name: "Nepali", Icon: "book-open", Enabled: true},
		{ID: "current_affairs", Name: "Current Affairs", Icon: "newspaper", Enabled: true},
	}
}
