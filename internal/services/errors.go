package services

import (
	"errors"

	"github.com/SAP-F-2025/quiz-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/quiz"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrInvalidSessionInput = errors.New("quiz requires at least one question")
	ErrSessionNotFound     = errors.New("quiz session not found")
	ErrOptionNotFound      = errors.New("option does not belong to the current question")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, catalog.ErrUnitNotFound) ||
		errors.Is(err, catalog.ErrModuleNotFound)
}

// IsInvalidSessionInput checks if a quiz could not be started for lack of questions
func IsInvalidSessionInput(err error) bool {
	return errors.Is(err, ErrInvalidSessionInput) ||
		errors.Is(err, quiz.ErrEmptySession)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrOptionNotFound) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}
