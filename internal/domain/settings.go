package domain

// TimerMode selects how the countdown behaves during a session.
type TimerMode string

const (
	TimerNone        TimerMode = "none"
	TimerPerQuestion TimerMode = "per_question"
	TimerTotalQuiz   TimerMode = "total_quiz"
)

func (m TimerMode) Valid() bool {
	switch m {
	case TimerNone, TimerPerQuestion, TimerTotalQuiz:
		return true
	}
	return false
}

// QuizSettings is chosen before a session starts and fixed for its duration.
// TimerValue is seconds in per_question mode and minutes in total_quiz mode.
type QuizSettings struct {
	QuestionsPerQuiz int       `json:"questionsPerQuiz"`
	TimerMode        TimerMode `json:"timerMode"`
	TimerValue       int       `json:"timerValue"`
}

func DefaultQuizSettings() QuizSettings {
	return QuizSettings{
		QuestionsPerQuiz: 10,
		TimerMode:        TimerPerQuestion,
		TimerValue:       30,
	}
}

// InitialCountdown returns the countdown in seconds at session start.
func (s QuizSettings) InitialCountdown() int {
	switch s.TimerMode {
	case TimerPerQuestion:
		return s.TimerValue
	case TimerTotalQuiz:
		return s.TimerValue * 60
	default:
		return 0
	}
}

func (s QuizSettings) Validate() ValidationErrors {
	var errs ValidationErrors
	if s.QuestionsPerQuiz <= 0 {
		errs = append(errs, ValidationError{Field: "questionsPerQuiz", Message: "must be positive", Value: s.QuestionsPerQuiz})
	}
	if !s.TimerMode.Valid() {
		errs = append(errs, NewInvalidFormatError("timerMode", s.TimerMode))
	} else if s.TimerMode != TimerNone && s.TimerValue <= 0 {
		errs = append(errs, ValidationError{Field: "timerValue", Message: "must be positive when a timer is set", Value: s.TimerValue})
	}
	return errs
}
