package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ValidateProjectInput(input entity.ProjectInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Title) == "" {
		errors = append(errors, ValidationError{"title", "is required"})
	}
	if input.Slug == "" {
		errors = append(errors, ValidationError{"slug", "is required"})
	} else if !slugPattern.MatchString(input.Slug) {
		errors = append(errors, ValidationError{"slug", "must be lowercase letters, digits and single hyphens"})
	}

	return errors
}

func ValidateLead(lead entity.Lead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(lead.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(lead.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(lead.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if !lead.Status.Valid() {
		errors = append(errors, ValidationError{"status", fmt.Sprintf("must be one of new, contacted, qualified, proposal-sent, won, lost (got %q)", lead.Status)})
	}
	if !lead.Source.Valid() {
		errors = append(errors, ValidationError{"source", fmt.Sprintf("must be one of chatbot, contact-form, manual (got %q)", lead.Source)})
	}

	return errors
}

// isValidEmail accepts a bare address only; display-name forms are rejected.
func isValidEmail(email string) bool {
	if !strings.Contains(email, "@") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
