package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

// MaxBulkDelay caps the pause a bulk request may ask for between recipients.
const MaxBulkDelay = 10 * time.Minute

type OutreachHandler struct {
	dispatcher   *usecase.OutreachDispatcher
	defaultDelay time.Duration
	logger       *slog.Logger
}

func NewOutreachHandler(d *usecase.OutreachDispatcher, defaultDelay time.Duration, logger *slog.Logger) *OutreachHandler {
	return &OutreachHandler{dispatcher: d, defaultDelay: defaultDelay, logger: logger}
}

type SendOutreachRequest struct {
	entity.Recipient
	Template string `json:"template"`
}

type BulkOutreachRequest struct {
	Leads    []entity.Recipient `json:"leads"`
	Template string             `json:"template"`
	// Delay between recipients in milliseconds. Nil means the server default.
	Delay *int64 `json:"delay,omitempty"`
}

type BulkOutreachResponse struct {
	BatchID string                  `json:"batchId"`
	Sent    int                     `json:"sent"`
	Failed  int                     `json:"failed"`
	Results []entity.OutreachResult `json:"results"`
}

// Templates (GET /outreach/templates)
func (h *OutreachHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"templates": usecase.OutreachTemplateNames()})
}

// Send (POST /outreach) delivers one email. A delivery failure is reported
// with 502 and the per-recipient result.
func (h *OutreachHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendOutreachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Template == "" {
		req.Template = usecase.TemplateIntroduction
	}

	res, err := h.dispatcher.SendOne(r.Context(), req.Template, req.Recipient)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.RecordOutreach(req.Template, res.Success)
	status := http.StatusOK
	if !res.Success {
		middleware.RecordIntegrationError("smtp")
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

// Bulk (POST /outreach/bulk) sends to every lead in order. The batch keeps
// running if the client goes away; the response reports every recipient.
func (h *OutreachHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkOutreachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	delay := h.defaultDelay
	if req.Delay != nil {
		if *req.Delay < 0 || *req.Delay > MaxBulkDelay.Milliseconds() {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("delay: must be between 0 and %d ms", MaxBulkDelay.Milliseconds()))
			return
		}
		delay = time.Duration(*req.Delay) * time.Millisecond
	}

	batchID := uuid.NewString()
	logger := h.logger.With("batch_id", batchID)
	logger.Info("outreach batch requested", "template", req.Template, "recipients", len(req.Leads))

	ctx := context.WithoutCancel(r.Context())
	results, err := h.dispatcher.SendBulk(ctx, req.Leads, req.Template, delay)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}

	for _, res := range results {
		middleware.RecordOutreach(req.Template, res.Success)
	}
	sent := usecase.CountSent(results)
	logger.Info("outreach batch done", "sent", sent, "failed", len(results)-sent)

	writeJSON(w, http.StatusOK, BulkOutreachResponse{
		BatchID: batchID,
		Sent:    sent,
		Failed:  len(results) - sent,
		Results: results,
	})
}
