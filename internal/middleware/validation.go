package middleware

import (
	"strconv"

	"gyandeep/internal/domain"
	"gyandeep/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedIDKey    = "validated_id"
	ValidatedLimitKey = "validated_limit"

	maxListLimit = 100
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateIDParam checks that the path parameter is an identifier issued by
// this service and stores it under ValidatedIDKey.
func (vm *ValidationMiddleware) ValidateIDParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if errs := vm.validator.ValidateID(param, id); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidateLimit parses the optional limit query parameter. Zero means the
// service default.
func (vm *ValidationMiddleware) ValidateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			if parsed < 1 || parsed > maxListLimit {
				return domain.ValidationErrors{domain.NewOutOfRangeError("limit", parsed, 1, maxListLimit)}
			}
			limit = parsed
		}
		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}

// ValidatedID returns the value stored by ValidateIDParam.
func ValidatedID(c *fiber.Ctx) string {
	id, _ := c.Locals(ValidatedIDKey).(string)
	return id
}

// ValidatedLimit returns the value stored by ValidateLimit.
func ValidatedLimit(c *fiber.Ctx) int {
	limit, _ := c.Locals(ValidatedLimitKey).(int)
	return limit
}
