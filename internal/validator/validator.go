package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinQuestionCount = 1
	MaxQuestionCount = 50
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(structValidator),
	}
}

// Validate validates s and converts tag failures into ValidationErrors
func (v *Validator) Validate(s any) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_count", validateQuestionCount)
	validate.RegisterValidation("store_driver", validateStoreDriver)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionCount(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= MinQuestionCount && n <= MaxQuestionCount
}

func validateStoreDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "memory", "redis", "postgres":
		return true
	}
	return false
}
