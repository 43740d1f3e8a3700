package validator

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct {
	structValidator *validator.Validate
}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator(structValidator *validator.Validate) *QuestionValidator {
	return &QuestionValidator{structValidator: structValidator}
}

// ValidateQuestion checks the catalog invariants of a question: non-empty text, at least two
// options with unique IDs and non-empty text, and a non-empty correct set drawn from those options.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if err := v.structValidator.Struct(question); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	optionIDs := make(map[int]bool, len(question.Options))
	for _, option := range question.Options {
		if option.Text == "" {
			return fmt.Errorf("option %d text cannot be empty", option.ID)
		}
		if optionIDs[option.ID] {
			return fmt.Errorf("duplicate option ID %d", option.ID)
		}
		optionIDs[option.ID] = true
	}

	seen := make(map[int]bool, len(question.CorrectOptionIDs))
	for _, correctID := range question.CorrectOptionIDs {
		if !optionIDs[correctID] {
			return fmt.Errorf("correct option ID %d does not match any option", correctID)
		}
		if seen[correctID] {
			return fmt.Errorf("correct option ID %d listed twice", correctID)
		}
		seen[correctID] = true
	}

	return nil
}
