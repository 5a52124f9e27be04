package services

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/anonto42/pulse/backend/pkg/errorx"
)

var (
	sanitizer = bluemonday.StrictPolicy()
	validate  = validator.New()
)

// cleanText strips markup and surrounding whitespace; what is left is stored as plain text.
func cleanText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(strings.TrimSpace(raw))))
}

// validationError turns validator failures on subject into a ValidationError.
func validationError(subject string, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errorx.New(errorx.Validation, err.Error())
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return errorx.Newf(errorx.Validation, "%s cannot be empty", subject)
	case "max":
		return errorx.Newf(errorx.Validation, "%s must be at most %s characters", subject, fe.Param())
	case "url":
		return errorx.New(errorx.Validation, "Image must be a valid URL")
	default:
		return errorx.New(errorx.Validation, fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
