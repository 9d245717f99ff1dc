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

const dashboardRecentResults = 5

type UserHandler struct {
	userService     service.UserService
	resultService   service.ResultService
	categoryService service.CategoryService
}

func NewUserHandler(userService service.UserService, resultService service.ResultService, categoryService service.CategoryService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		resultService:   resultService,
		categoryService: categoryService,
	}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Description Retrieves the profile information of the logged-in user.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.UserProfile
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdatePreferences replaces the saved quiz settings.
// @Summary Update quiz preferences
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Quiz settings"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me/preferences [put]
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	userID := middleware.UserID(c)
	profile, err := h.userService.UpdatePreferences(c.Context(), userID, req.Settings())
	if err != nil {
		return err
	}
	logger.Get().Info("Preferences updated", zap.String("userID", userID))
	return c.JSON(profile)
}

// GetMyResults lists finished quizzes, newest first.
// @Summary Get My Results
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Maximum number of results (default 20, max 100)"
// @Success 200 {object} dto.ResultListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me/results [get]
func (h *UserHandler) GetMyResults(c *fiber.Ctx) error {
	history, err := h.resultService.History(c.Context(), middleware.UserID(c), middleware.ValidatedLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

// Dashboard returns everything the landing screen shows after login.
// @Summary Dashboard
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	categories, err := h.categoryService.Summaries(c.Context())
	if err != nil {
		return err
	}
	history, err := h.resultService.History(c.Context(), userID, dashboardRecentResults)
	if err != nil {
		return err
	}
	return c.JSON(dto.DashboardResponse{
		User:          profile,
		Categories:    categories,
		RecentResults: history.Results,
	})
}

// GetCategories lists the enabled categories with their question types and counts.
// @Summary Get quiz categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.CategorySummary
// @Failure 500 {object} middleware.ErrorResponse
// @Router /categories [get]
func (h *UserHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.Summaries(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}
