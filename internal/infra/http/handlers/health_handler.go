package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Pinger reports whether a backing store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Stores         map[string]Pinger
	Broker         func() bool
	MailConfigured bool
	ChatConfigured bool
	Version        string
	StartTime      time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(stores map[string]Pinger, broker func() bool, mailConfigured, chatConfigured bool, version string) *HealthHandler {
	return &HealthHandler{
		Stores:         stores,
		Broker:         broker,
		MailConfigured: mailConfigured,
		ChatConfigured: chatConfigured,
		Version:        version,
		StartTime:      time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string)

	names := make([]string, 0, len(h.Stores))
	for name := range h.Stores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.Stores[name].Ping(ctx); err != nil {
			deps["store:"+name] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store:"+name] = "healthy"
		}
	}

	switch {
	case h.Broker == nil:
		deps["rabbitmq"] = "not configured"
	case h.Broker():
		deps["rabbitmq"] = "healthy"
	default:
		deps["rabbitmq"] = "unhealthy: connection closed"
	}

	deps["mail"] = configured(h.MailConfigured)
	deps["chat"] = configured(h.ChatConfigured)

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
