package handler

import (
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/logger"
	"gyandeep/internal/middleware"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler exposes the quiz session engine. Every route except Start
// runs behind ValidateIDParam("id").
type SessionHandler struct {
	sessions service.SessionService
}

func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Start godoc
// @Summary Start a quiz session
// @Description Selects questions for the category and topic and starts the timers. Settings default to the saved preferences.
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Category, topic and settings"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid category, settings or empty selection"
// @Router /sessions [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	userID := middleware.UserID(c)
	session, err := h.sessions.Start(c.Context(), userID, req)
	if err != nil {
		return err
	}
	logger.Get().Info("Quiz session started",
		zap.String("sessionID", session.SessionID),
		zap.String("userID", userID),
		zap.String("category", session.Category),
		zap.Int("questions", session.Total),
	)
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Get godoc
// @Summary Get session state
// @Description Returns the live view, or the result summary once the session was submitted.
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Answer godoc
// @Summary Answer the current question
// @Description Records the option (0-3) for the current question. A null option clears the selection.
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid option"
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	session, err := h.sessions.Answer(c.Context(), middleware.UserID(c), middleware.ValidatedID(c), req.Option)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Next godoc
// @Summary Go to the next question
// @Description On the last question the session is marked ready to submit instead.
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id}/next [post]
func (h *SessionHandler) Next(c *fiber.Ctx) error {
	session, err := h.sessions.Next(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Previous godoc
// @Summary Go to the previous question
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id}/previous [post]
func (h *SessionHandler) Previous(c *fiber.Ctx) error {
	session, err := h.sessions.Previous(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// ToggleReview godoc
// @Summary Flag or unflag the current question for review
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ToggleReviewResponse
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id}/review [post]
func (h *SessionHandler) ToggleReview(c *fiber.Ctx) error {
	resp, err := h.sessions.ToggleReview(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary Submit the quiz
// @Description Scores the session and returns the result summary.
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	session, err := h.sessions.Submit(c.Context(), userID, middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	if session.Result != nil {
		logger.Get().Info("Quiz submitted",
			zap.String("sessionID", session.SessionID),
			zap.String("userID", userID),
			zap.Int("score", session.Result.Score),
		)
	}
	return c.JSON(session)
}

// Exit godoc
// @Summary Exit the quiz without a result
// @Tags sessions
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 409 {object} middleware.ErrorResponse "Session closed"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Exit(c *fiber.Ctx) error {
	if err := h.sessions.Exit(c.Context(), middleware.UserID(c), middleware.ValidatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
