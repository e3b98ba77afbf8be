package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

type LeadHandler struct {
	svc         *usecase.LeadService
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

func NewLeadHandler(svc *usecase.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{
		svc:         svc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
		logger:      logger,
	}
}

type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Service  string `json:"service,omitempty"`
	Message  string `json:"message,omitempty"`
	Budget   string `json:"budget,omitempty"`
	Timeline string `json:"timeline,omitempty"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// List (GET /leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Create (POST /leads) accepts leads from the chatbot widget and the admin.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	lead, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	middleware.RecordLeadCreated(string(lead.Source))
	writeJSON(w, http.StatusCreated, lead)
}

// Contact (POST /contact) is the public contact form.
func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, ContactResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	lead, err := h.svc.Create(r.Context(), usecase.LeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Service:  req.Service,
		Message:  req.Message,
		Budget:   req.Budget,
		Timeline: req.Timeline,
		Source:   entity.LeadSourceContactForm,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.RecordLeadCreated(string(lead.Source))
	writeJSON(w, http.StatusCreated, ContactResponse{
		Success: true,
		Message: "Thanks! We'll get back to you shortly.",
	})
}

// Update (PUT /leads) merges the supplied fields onto the stored lead.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update usecase.LeadUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	lead, err := h.svc.Update(r.Context(), update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /leads?id=)
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "id query parameter is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
