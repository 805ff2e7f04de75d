package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/notification"
)

// AlertHandler is the boundary through which the domain record routers
// (incidents, non-conformities, documents) raise alerts.
type AlertHandler struct {
	alerts *notification.Alerts
	logger zerolog.Logger
}

func NewAlertHandler(alerts *notification.Alerts, logger zerolog.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		logger: logger.With().Str("handler", "alert").Logger(),
	}
}

type publishAlertRequest struct {
	EventType    string `json:"event_type"`
	Severity     string `json:"severity"`
	SubjectID    int64  `json:"subject_id"`
	SubjectTitle string `json:"subject_title"`
}

func (h *AlertHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.alerts.Publish(r.Context(), notification.Event{
		Type:         notification.EventType(req.EventType),
		Severity:     req.Severity,
		SubjectID:    req.SubjectID,
		SubjectTitle: req.SubjectTitle,
	})
	if err != nil {
		if errors.Is(err, notification.ErrValidation) {
			http.Error(w, "Invalid alert event: "+err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Str("event_type", req.EventType).Msg("failed to fan out alert")
		http.Error(w, "Failed to fan out alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Alert fanned out",
		"recipients": created,
	})
}
