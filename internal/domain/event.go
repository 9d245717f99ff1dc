package domain

const EventNameQuizCompleted = "quiz.completed"

// EventQuizCompleted is published once per terminated session with a result.
type EventQuizCompleted struct {
	Result QuizResult
}

func (EventQuizCompleted) Name() string {
	return EventNameQuizCompleted
}
