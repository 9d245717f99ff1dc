package service

import (
	"context"
	"fmt"

	"gyandeep/internal/domain"
	"gyandeep/internal/event"

	"go.uber.org/zap"
)

// Subscriber is satisfied by *event.Bus.
type Subscriber interface {
	Subscribe(name string, h event.Handler)
}

// QuizCompletedHandler persists a finished session: the result, the user's
// rolling stats and, when configured, the leaderboard.
type QuizCompletedHandler struct {
	results     ResultService
	users       UserService
	leaderboard LeaderboardService
	logger      *zap.Logger
}

// NewQuizCompletedHandler builds the handler. leaderboard may be nil.
func NewQuizCompletedHandler(results ResultService, users UserService, leaderboard LeaderboardService, logger *zap.Logger) *QuizCompletedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizCompletedHandler{results: results, users: users, leaderboard: leaderboard, logger: logger}
}

// Register subscribes the handler to quiz.completed.
func (h *QuizCompletedHandler) Register(bus Subscriber) {
	bus.Subscribe(domain.EventQuizCompleted{}.Name(), h.Handle)
}

func (h *QuizCompletedHandler) Handle(ctx context.Context, e event.Event) error {
	completed, ok := e.(domain.EventQuizCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	result := completed.Result

	if err := h.results.Save(ctx, &result); err != nil {
		h.logger.Error("Failed to persist quiz result", zap.String("resultID", result.ID), zap.Error(err))
		return err
	}

	profile, err := h.users.RecordResult(ctx, &result)
	if err != nil {
		h.logger.Error("Failed to update user stats", zap.String("userID", result.UserID), zap.Error(err))
		return err
	}

	if h.leaderboard != nil {
		if err := h.leaderboard.Record(ctx, &result, profile); err != nil {
			return err
		}
	}

	h.logger.Info("Quiz result recorded",
		zap.String("resultID", result.ID),
		zap.String("userID", result.UserID),
		zap.Int("score", result.Score),
	)
	return nil
}
