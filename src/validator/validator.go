package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError はバリデーションエラーの詳細情報
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator *validator.Validate
	idPattern *regexp.Regexp
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// エラーメッセージにはjsonタグのフィールド名を使用
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	return &CustomValidator{
		validator: v,
		idPattern: regexp.MustCompile(`^[0-9a-fA-F]{24}$`),
	}
}

// Validate validates a struct and returns detailed field errors
func (cv *CustomValidator) Validate(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		var fieldErrors []FieldError

		for _, err := range err.(validator.ValidationErrors) {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   err.Field(),
				Message: cv.generateErrorMessage(err),
			})
		}

		return ValidationErrors{Errors: fieldErrors}
	}
	return nil
}

// ValidateID checks the store identifier shape (24 character hex token)
func (cv *CustomValidator) ValidateID(id string) error {
	if !cv.idPattern.MatchString(id) {
		return ValidationErrors{Errors: []FieldError{
			{Field: "id", Message: "Invalid todo ID"},
		}}
	}
	return nil
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s character(s)", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(err.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
