package handler

import (
	"bytes"
	"io"
	"strings"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/logger"
	"gyandeep/internal/middleware"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	importFormField    = "file"
	exportFileName     = "gyandeep_questions.csv"
	templateFileName   = "gyandeep_template.csv"
	csvContentType     = "text/csv; charset=utf-8"
	contentDisposition = "Content-Disposition"
)

// AdminHandler serves the question bank manager. All routes run behind
// Protected and AdminOnly.
type AdminHandler struct {
	questions  service.QuestionService
	categories service.CategoryService
	users      service.UserService
	ai         service.AIService
}

func NewAdminHandler(questions service.QuestionService, categories service.CategoryService, users service.UserService, ai service.AIService) *AdminHandler {
	return &AdminHandler{questions: questions, categories: categories, users: users, ai: ai}
}

func questionFilter(c *fiber.Ctx) domain.QuestionFilter {
	return domain.QuestionFilter{
		Category: strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Type:     strings.TrimSpace(c.Query("type")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

// ListQuestions godoc
// @Summary List questions
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param category query string false "Category ID or all"
// @Param type query string false "Question type"
// @Param search query string false "Case-insensitive search over prompt, type and category"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/questions [get]
func (h *AdminHandler) ListQuestions(c *fiber.Ctx) error {
	list, err := h.questions.List(c.Context(), questionFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetQuestion godoc
// @Summary Get a question
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} domain.Question
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [get]
func (h *AdminHandler) GetQuestion(c *fiber.Ctx) error {
	q, err := h.questions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} domain.Question
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/questions [post]
func (h *AdminHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	q, err := h.questions.Create(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// UpdateQuestion godoc
// @Summary Replace a question
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} domain.Question
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [put]
func (h *AdminHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	q, err := h.questions.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [delete]
func (h *AdminHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.questions.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WipeQuestions godoc
// @Summary Delete every question
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.WipeResponse
// @Router /admin/questions [delete]
func (h *AdminHandler) WipeQuestions(c *fiber.Ctx) error {
	resp, err := h.questions.DeleteAll(c.Context())
	if err != nil {
		return err
	}
	logger.Get().Warn("Question bank wiped", zap.String("by", middleware.UserID(c)), zap.Int64("deleted", resp.Deleted))
	return c.JSON(resp)
}

// ImportQuestions godoc
// @Summary Import questions from CSV
// @Description Accepts a multipart upload in the "file" field or a raw text/csv body.
// @Tags admin
// @Security ApiKeyAuth
// @Accept mpfd
// @Accept plain
// @Produce json
// @Param file formData file false "CSV file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/questions/import [post]
func (h *AdminHandler) ImportQuestions(c *fiber.Ctx) error {
	var r io.Reader
	if fh, err := c.FormFile(importFormField); err == nil {
		f, err := fh.Open()
		if err != nil {
			return domain.NewInvalidInputError("cannot read uploaded file")
		}
		defer f.Close()
		r = f
	} else {
		body := c.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			return domain.ValidationErrors{domain.NewMissingFieldError(importFormField)}
		}
		r = bytes.NewReader(body)
	}

	resp, err := h.questions.Import(c.Context(), r)
	if err != nil {
		return err
	}
	logger.Get().Info("Questions imported", zap.Int("imported", resp.Imported), zap.Int("skipped", resp.Skipped))
	return c.JSON(resp)
}

// ExportQuestions godoc
// @Summary Export questions as CSV
// @Tags admin
// @Security ApiKeyAuth
// @Produce plain
// @Param category query string false "Category ID or all"
// @Param type query string false "Question type"
// @Param search query string false "Search"
// @Success 200 {string} string "CSV file"
// @Router /admin/questions/export [get]
func (h *AdminHandler) ExportQuestions(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.questions.Export(c.Context(), &buf, questionFilter(c)); err != nil {
		return err
	}
	return sendCSV(c, exportFileName, buf.Bytes())
}

// CSVTemplate godoc
// @Summary Download the CSV import template
// @Tags admin
// @Security ApiKeyAuth
// @Produce plain
// @Success 200 {string} string "CSV file"
// @Router /admin/questions/template [get]
func (h *AdminHandler) CSVTemplate(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := service.WriteCSVTemplate(&buf); err != nil {
		return domain.NewInternalError("failed to write template", err)
	}
	return sendCSV(c, templateFileName, buf.Bytes())
}

func sendCSV(c *fiber.Ctx, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, csvContentType)
	c.Set(contentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// ListCategories godoc
// @Summary List all categories, including disabled ones
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} domain.Category
// @Router /admin/categories [get]
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// SaveCategory godoc
// @Summary Create or update a category
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} domain.Category
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/categories [post]
func (h *AdminHandler) SaveCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	category, err := h.categories.Save(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// SetCategoryStatus godoc
// @Summary Enable or disable a category
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.CategoryStatusRequest true "Status"
// @Success 200 {object} domain.Category
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/categories/{id}/status [put]
func (h *AdminHandler) SetCategoryStatus(c *fiber.Ctx) error {
	var req dto.CategoryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	category, err := h.categories.SetEnabled(c.Context(), c.Params("id"), req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserListResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{Users: users})
}

// GenerateQuestions godoc
// @Summary Generate questions with AI
// @Description Drafts questions for a topic, drops duplicates of the bank and saves the rest under ai_generated.
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Topic, count and difficulty"
// @Success 201 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "LLM unavailable"
// @Router /admin/questions/generate [post]
func (h *AdminHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.ai.Generate(c.Context(), req)
	if err != nil {
		return err
	}
	logger.Get().Info("AI questions generated",
		zap.String("topic", req.Topic),
		zap.Int("generated", resp.Generated),
		zap.Int("duplicates", resp.Duplicates),
	)
	return c.Status(fiber.StatusCreated).JSON(resp)
}
