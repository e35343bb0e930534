package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/labstack/echo/v4"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Bind decodes the request body into dst and runs struct validation,
// translating failures into field-level details.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.NewValidation("invalid request body")
	}
	return Struct(dst)
}

// BindQuery decodes query params into dst and validates it.
func BindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return apperr.NewValidation("invalid query parameters")
	}
	return Struct(dst)
}

func Struct(dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.NewValidationWrap("validation failed", err)
	}

	details := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperr.FieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: message(fe),
		})
	}
	return apperr.NewValidationDetails("validation failed", details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
