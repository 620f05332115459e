package http

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs validator tags on a request DTO and translates the
// failures into the field-violation list carried by the error envelope.
func ValidateStruct(v any) []commonerrors.FieldViolation {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []commonerrors.FieldViolation{{Field: "", Message: "invalid request"}}
	}

	violations := make([]commonerrors.FieldViolation, 0, len(validationErrs))
	for _, fe := range validationErrs {
		violations = append(violations, commonerrors.FieldViolation{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: violationMessage(fe),
		})
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid identifier", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrInvalidID
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrInvalidID.WithCause(err)
	}
	return nil
}
