package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/authgate/errors"
)

// FieldError is one entry of the "fields" detail on a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]*$`)

var engine = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
})

// jsonName reports fields under their wire name.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Validate checks s against its `validate` tags. Every rejected field is
// listed in the returned INVALID_INPUT error.
func Validate(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("validation failed")
	}

	fields := make([]FieldError, len(verrs))
	summary := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Message: describe(fe)}
		summary[i] = fe.Field() + ": " + fields[i].Message
	}
	return apperrors.Validation(strings.Join(summary, "; ")).WithDetail("fields", fields)
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must be at least %s characters",
	"max":      "must be at most %s characters",
	"username": "may only contain letters, digits, '.', '_' and '-'",
}

func describe(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	return strings.Replace(msg, "%s", fe.Param(), 1)
}
