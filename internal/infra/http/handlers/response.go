package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeServiceError maps a use case error onto a status code and error body.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *usecase.DomainError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, entity.ErrInvalidTemplate):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_TEMPLATE", err.Error())
	case errors.Is(err, entity.ErrInvalidInput):
		code := "VALIDATION_ERROR"
		if errors.As(err, &de) && de.Code != "" {
			code = de.Code
		}
		writeErrorResponse(w, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, entity.ErrChatNotConfigured):
		writeErrorResponse(w, http.StatusServiceUnavailable, "CHAT_NOT_CONFIGURED", "The chat assistant is not available right now.")
	case errors.Is(err, entity.ErrChatQuotaExceeded):
		logger.Error("chat provider quota exceeded", "error", err)
		writeErrorResponse(w, http.StatusPaymentRequired, "CHAT_QUOTA_EXCEEDED", "The chat assistant has reached its usage limit.")
	case errors.Is(err, entity.ErrChatRateLimited):
		writeErrorResponse(w, http.StatusTooManyRequests, "CHAT_RATE_LIMITED", "The chat assistant is busy. Please try again in a moment.")
	case errors.Is(err, entity.ErrStorageUnavailable):
		logger.Error("storage failure", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "STORAGE_ERROR", "Storage is unavailable. No changes were saved.")
	default:
		logger.Error("unhandled error", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong.")
	}
}
