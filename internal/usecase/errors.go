package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// DomainError is a caller mistake. Err is the entity sentinel it maps to.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure the caller cannot fix.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func notFound(kind, id string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %q not found", kind, id),
		Err:     entity.ErrNotFound,
	}
}

func invalidInput(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed: " + strings.Join(parts, ", "),
		Err:     entity.ErrInvalidInput,
	}
}

func storageError(op string, err error) error {
	return &TechnicalError{
		Code:    "STORAGE_ERROR",
		Message: op + ": " + err.Error(),
		Err:     err,
	}
}
