package validation

import (
	"regexp"
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/util"
)

const (
	MinQuestionsPerQuiz = 5
	MaxQuestionsPerQuiz = 50
	MinPerQuestionSecs  = 10
	MaxPerQuestionSecs  = 120
	MinTotalQuizMinutes = 5
	MaxTotalQuizMinutes = 60
	MaxGenerateCount    = 20
	maxNameLength       = 100
	maxTopicLength      = 200
)

var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	identifierPattern = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateLoginRequest(req dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !emailPattern.MatchString(email) {
		errors = append(errors, domain.NewInvalidFormatError("email", req.Email))
	}

	if len(req.Name) > maxNameLength {
		errors = append(errors, domain.NewOutOfRangeError("name", len(req.Name), 0, maxNameLength))
	}
	return errors
}

// ValidateQuizSettings applies the ranges offered by the settings screen on
// top of the structural checks of domain.QuizSettings.
func (v *Validator) ValidateQuizSettings(s domain.QuizSettings) domain.ValidationErrors {
	errors := s.Validate()
	if len(errors) > 0 {
		return errors
	}

	if s.QuestionsPerQuiz < MinQuestionsPerQuiz || s.QuestionsPerQuiz > MaxQuestionsPerQuiz {
		errors = append(errors, domain.NewOutOfRangeError("questionsPerQuiz", s.QuestionsPerQuiz, MinQuestionsPerQuiz, MaxQuestionsPerQuiz))
	}
	switch s.TimerMode {
	case domain.TimerPerQuestion:
		if s.TimerValue < MinPerQuestionSecs || s.TimerValue > MaxPerQuestionSecs {
			errors = append(errors, domain.NewOutOfRangeError("timerValue", s.TimerValue, MinPerQuestionSecs, MaxPerQuestionSecs))
		}
	case domain.TimerTotalQuiz:
		if s.TimerValue < MinTotalQuizMinutes || s.TimerValue > MaxTotalQuizMinutes {
			errors = append(errors, domain.NewOutOfRangeError("timerValue", s.TimerValue, MinTotalQuizMinutes, MaxTotalQuizMinutes))
		}
	}
	return errors
}

func (v *Validator) ValidateStartSession(req dto.StartSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	category := strings.TrimSpace(req.Category)
	if category == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	} else if category != domain.AllCategories && !identifierPattern.MatchString(category) {
		errors = append(errors, domain.NewInvalidFormatError("category", req.Category))
	}
	if len(req.Topic) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(req.Topic), 0, maxTopicLength))
	}
	if req.Settings != nil {
		errors = append(errors, v.ValidateQuizSettings(*req.Settings)...)
	}
	return errors
}

// ValidateID checks identifiers issued by this service (sessions, results).
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

func (v *Validator) ValidateQuestionRequest(req dto.QuestionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(req.Options) != domain.OptionCount {
		errors = append(errors, domain.ValidationError{Field: "options", Message: "exactly four options are required", Value: len(req.Options)})
	}
	errors = append(errors, req.ToDomain("").Validate()...)
	return errors
}

func (v *Validator) ValidateCategoryRequest(req dto.CategoryRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if req.ID != "" && !identifierPattern.MatchString(req.ID) {
		errors = append(errors, domain.NewInvalidFormatError("id", req.ID))
	}
	c := domain.Category{ID: req.ID, Name: req.Name, MaxQuestions: req.MaxQuestions}
	errors = append(errors, c.Validate()...)
	return errors
}

func (v *Validator) ValidateGenerateRequest(req dto.GenerateQuestionsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if len(topic) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(topic), 1, maxTopicLength))
	}
	if req.Count < 0 || req.Count > MaxGenerateCount {
		errors = append(errors, domain.NewOutOfRangeError("count", req.Count, 1, MaxGenerateCount))
	}
	return errors
}
