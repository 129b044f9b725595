package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

type processRequest struct {
	Message string `json:"message"`
}

type processResponse struct {
	EventData *domain.EventRecord   `json:"eventData"`
	Result    *domain.PublishResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ManualHandler serves the authenticated manual processing API: raw text in,
// the extracted record and publish result out.
type ManualHandler struct {
	pipeline *usecase.ProcessMessageUseCase
	metrics  *metrics.PipelineMetrics
	logger   *slog.Logger
}

// NewManualHandler creates a new ManualHandler.
func NewManualHandler(pipeline *usecase.ProcessMessageUseCase, m *metrics.PipelineMetrics, logger *slog.Logger) *ManualHandler {
	return &ManualHandler{
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
}

func (h *ManualHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload too large"})
			return
		}
		h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelManual), "input_error").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	msg, err := normalizeManual(req.Message)
	if err != nil {
		h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelManual), "input_error").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	msg.ID = r.Header.Get("X-Request-ID")

	out, err := h.pipeline.Process(r.Context(), msg)
	observeOutcome(h.metrics, domain.ChannelManual, out, err)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	resp := processResponse{EventData: out.Record}
	if out.NeedsClarification {
		message := "clarification needed"
		if out.Record.ValidationNotes != "" {
			message += ": " + out.Record.ValidationNotes
		}
		resp.Result = &domain.PublishResult{Success: false, ErrorMessage: message}
	} else {
		resp.Result = out.Publish
	}
	writeJSON(w, http.StatusOK, resp)
}
