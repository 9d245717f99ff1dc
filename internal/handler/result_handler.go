package handler

import (
	"gyandeep/internal/middleware"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ResultHandler struct {
	results service.ResultService
}

func NewResultHandler(results service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Get godoc
// @Summary Get a quiz result
// @Tags results
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} dto.ResultSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *fiber.Ctx) error {
	result, err := h.results.Get(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Review godoc
// @Summary Review answers of a quiz result
// @Description Every question of the session with the explanation, the selected option and correctness.
// @Tags results
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} dto.ResultReviewResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /results/{id}/review [get]
func (h *ResultHandler) Review(c *fiber.Ctx) error {
	review, err := h.results.Review(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(review)
}

// Analyze godoc
// @Summary AI performance analysis
// @Description Generates the mentor report for a result on first request and serves it from cache afterwards.
// @Tags results
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "LLM unavailable"
// @Router /results/{id}/analysis [get]
func (h *ResultHandler) Analyze(c *fiber.Ctx) error {
	analysis, err := h.results.Analyze(c.Context(), middleware.UserID(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(analysis)
}
