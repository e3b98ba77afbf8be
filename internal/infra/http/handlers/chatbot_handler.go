package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

type ChatbotHandler struct {
	svc    *usecase.ChatbotService
	logger *slog.Logger
}

func NewChatbotHandler(svc *usecase.ChatbotService, logger *slog.Logger) *ChatbotHandler {
	return &ChatbotHandler{svc: svc, logger: logger}
}

type ChatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []entity.ChatMessage `json:"conversationHistory"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Handle (POST /chatbot)
func (h *ChatbotHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	reply, err := h.svc.Reply(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		if !errors.Is(err, entity.ErrInvalidInput) {
			middleware.RecordIntegrationError("openai")
		}
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
