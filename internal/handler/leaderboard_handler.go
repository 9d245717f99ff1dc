package handler

import (
	"gyandeep/internal/domain"
	"gyandeep/internal/middleware"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LeaderboardHandler struct {
	leaderboard service.LeaderboardService
}

func NewLeaderboardHandler(leaderboard service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Get godoc
// @Summary Leaderboard
// @Tags leaderboard
// @Security ApiKeyAuth
// @Produce json
// @Param scope query string false "global (default), monthly or category"
// @Param category query string false "Category ID, required for the category scope"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} domain.Leaderboard
// @Failure 400 {object} middleware.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Get(c *fiber.Ctx) error {
	scope, err := domain.ParseLeaderboardScope(c.Query("scope"))
	if err != nil {
		return err
	}
	board, err := h.leaderboard.Top(c.Context(), scope, c.Query("category"), middleware.ValidatedLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(board)
}
