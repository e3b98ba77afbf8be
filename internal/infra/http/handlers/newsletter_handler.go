package handlers

import (
	"log/slog"
	"net/http"

	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

type NewsletterHandler struct {
	svc    *usecase.SubscriberService
	logger *slog.Logger
}

func NewNewsletterHandler(svc *usecase.SubscriberService, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{svc: svc, logger: logger}
}

type newsletterRequest struct {
	Email string `json:"email"`
}

// Subscribe (POST /newsletter). An address that is already active gets 409.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	res, err := h.svc.Subscribe(r.Context(), req.Email, usecase.DefaultSubscriberSource)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.RecordNewsletterEvent(res.Reason)
	status := http.StatusOK
	switch res.Reason {
	case usecase.ReasonSubscribed:
		status = http.StatusCreated
	case usecase.ReasonAlreadySubscribed:
		status = http.StatusConflict
	}
	writeJSON(w, status, res)
}

// Unsubscribe (POST /newsletter/unsubscribe). Unknown addresses get 404.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	res, err := h.svc.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.RecordNewsletterEvent(res.Reason)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

// Subscribers (GET /newsletter/subscribers[?status=active])
func (h *NewsletterHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	list := h.svc.List
	if r.URL.Query().Get("status") == "active" {
		list = h.svc.Active
	}

	subs, err := list(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
