package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

// EmailHandler handles inbound email webhook posts. Email relays post parsed
// messages as form fields (from, subject, text, html); JSON bodies with the
// same fields are accepted for relays that speak it. The sender only gets a
// status code: notifying them is the relay's business, not ours.
type EmailHandler struct {
	pipeline *usecase.ProcessMessageUseCase
	metrics  *metrics.PipelineMetrics
	logger   *slog.Logger
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(pipeline *usecase.ProcessMessageUseCase, m *metrics.PipelineMetrics, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
}

func (h *EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var from, subject, text, html string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			From    string `json:"from"`
			Subject string `json:"subject"`
			Text    string `json:"text"`
			HTML    string `json:"html"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
				return
			}
			h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelEmail), "input_error").Inc()
			h.logger.Warn("invalid email payload", "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		from, subject, text, html = payload.From, payload.Subject, payload.Text, payload.HTML
	} else {
		// PostFormValue parses urlencoded and multipart bodies alike.
		from = r.PostFormValue("from")
		subject = r.PostFormValue("subject")
		text = r.PostFormValue("text")
		html = r.PostFormValue("html")
	}

	msg, err := normalizeEmail(subject, text, html, from)
	if err != nil {
		h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelEmail), "input_error").Inc()
		h.logger.Warn("invalid email payload", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	msg.ID = r.Header.Get("X-Request-ID")

	h.logger.Info("email received", "from", pii.MaskSender(msg.Sender), "subject", subject)

	out, err := h.pipeline.Process(r.Context(), msg)
	observeOutcome(h.metrics, domain.ChannelEmail, out, err)
	if err != nil {
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	// Clarifications and publish failures are in the logs and metrics; the
	// relay just needs to know we took the message.
	w.WriteHeader(http.StatusOK)
}
