package middleware

import (
	"examhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const SubmissionIDKey = "submissionID"

// ValidationMiddleware checks path parameters before handlers run.
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateSubmissionID validates the :submissionId path parameter and stores it in locals.
func (m *ValidationMiddleware) ValidateSubmissionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("submissionId")
		if errs := m.validator.ValidateSubmissionID(id); len(errs) > 0 {
			return errs
		}
		c.Locals(SubmissionIDKey, id)
		return c.Next()
	}
}
