package handler

import (
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/logger"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Login signs a student in with the local mocked login form.
// @Summary Login
// @Description Creates the profile on first login and issues a JWT pair. Emails containing "admin" get admin rights.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login form"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	user, err := h.userService.Login(c.Context(), req)
	if err != nil {
		return err
	}
	tokens, err := h.authService.IssueTokens(c.Context(), user)
	if err != nil {
		return err
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID), zap.Bool("admin", user.IsAdmin))
	return c.JSON(tokens)
}

// AdminLogin is the one-click admin access of the login screen.
// @Summary Admin quick login
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/admin-login [post]
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	user, err := h.userService.AdminLogin(c.Context())
	if err != nil {
		return err
	}
	tokens, err := h.authService.IssueTokens(c.Context(), user)
	if err != nil {
		return err
	}
	logger.Get().Info("Admin logged in", zap.String("userID", user.ID))
	return c.JSON(tokens)
}

// RefreshToken handles token refresh.
// @Summary Refresh JWT tokens
// @Description Issues a new access and refresh token pair for a valid refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh_token body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 401 {object} middleware.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("refresh_token")}
	}

	tokens, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}
