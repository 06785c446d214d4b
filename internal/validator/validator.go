package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

var categorySlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validator wraps go-playground/validator with the domain rules used by
// services and handlers.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate validates struct tags and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerDomainRules() {
	_ = v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	_ = v.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return models.QuestionType(fl.Field().String()).Valid()
	})

	_ = v.validate.RegisterValidation("category_slug", func(fl validator.FieldLevel) bool {
		return categorySlugPattern.MatchString(fl.Field().String())
	})
}

// ValidationError describes a single failed field validation.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(ve))
	for i, e := range ve {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(messages, "; ")
}

// ToValidationErrors converts go-playground validation errors into the
// API-facing shape.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var result ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			result = append(result, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return result
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "hexadecimal":
		return "must be a hexadecimal string"
	case "user_role":
		return "must be one of: admin, manager"
	case "question_type":
		return "must be one of: radio, text, radio_with_text"
	case "category_slug":
		return "must be a lowercase slug"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
