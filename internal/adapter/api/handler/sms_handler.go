package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
	"github.com/AIworks24/calendar-agent/internal/adapter/responder"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

// SMSHandler handles inbound SMS webhook posts. The reply travels inline: a
// 200 with an XML document the provider texts back to the sender.
type SMSHandler struct {
	pipeline *usecase.ProcessMessageUseCase
	metrics  *metrics.PipelineMetrics
	logger   *slog.Logger
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(pipeline *usecase.ProcessMessageUseCase, m *metrics.PipelineMetrics, logger *slog.Logger) *SMSHandler {
	return &SMSHandler{
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
}

// ServeHTTP processes one SMS. Once the payload is valid the sender always
// gets a reply document, even when the pipeline blew up: losing the reply
// would leave them texting into the void.
func (h *SMSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("sms handler panic", "panic", rec)
			writeTwiML(w, h.logger, responder.MessageReply{Message: responder.ProcessingFailed})
		}
	}()

	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, err := normalizeSMS(r.PostFormValue("Body"), r.PostFormValue("From"))
	if err != nil {
		h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelSMS), "input_error").Inc()
		h.logger.Warn("invalid sms payload", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	msg.ID = r.Header.Get("X-Request-ID")

	h.logger.Info("sms received", "from", pii.MaskSender(msg.Sender), "length", len(msg.Text))

	out, err := h.pipeline.Process(r.Context(), msg)
	observeOutcome(h.metrics, domain.ChannelSMS, out, err)
	if err != nil {
		writeTwiML(w, h.logger, responder.MessageReply{Message: responder.ProcessingFailed})
		return
	}

	writeTwiML(w, h.logger, responder.MessageReply{Message: responder.ForOutcome(out)})
}
