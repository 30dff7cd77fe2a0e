package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

var validate = validator.New()

// validateBody runs struct-tag validation and converts failures into the
// VALIDATION_FAILED shape the error middleware renders.
func validateBody(req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			details := make(map[string]any, len(ve))
			for _, fe := range ve {
				details[strings.ToLower(fe.Field())] = fieldError(fe)
			}
			return apperrors.NewValidationError("request validation failed", details)
		}
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
