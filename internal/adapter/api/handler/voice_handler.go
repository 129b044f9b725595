package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
	"github.com/AIworks24/calendar-agent/internal/adapter/responder"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

// VoicePromptHandler answers the initial voice webhook with a spoken prompt
// and a recording directive; the provider transcribes the recording and posts
// it to the transcription callback.
type VoicePromptHandler struct {
	prompt       string
	callbackPath string
	logger       *slog.Logger
}

// NewVoicePromptHandler creates a new VoicePromptHandler.
func NewVoicePromptHandler(prompt, callbackPath string, logger *slog.Logger) *VoicePromptHandler {
	return &VoicePromptHandler{
		prompt:       prompt,
		callbackPath: callbackPath,
		logger:       logger,
	}
}

func (h *VoicePromptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("voice call received", "from", pii.MaskSender(r.PostFormValue("From")))
	writeTwiML(w, h.logger, responder.NewVoicePrompt(h.prompt, h.callbackPath))
}

// TranscriptionHandler processes the transcription callback. The caller hung
// up long ago, so there is no inline reply: a published event is confirmed
// with a fresh outbound message and every other outcome is only logged.
type TranscriptionHandler struct {
	pipeline    *usecase.ProcessMessageUseCase
	messenger   domain.Messenger
	metrics     *metrics.PipelineMetrics
	logger      *slog.Logger
	sendTimeout time.Duration
}

// NewTranscriptionHandler creates a new TranscriptionHandler.
func NewTranscriptionHandler(pipeline *usecase.ProcessMessageUseCase, messenger domain.Messenger, m *metrics.PipelineMetrics, logger *slog.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		pipeline:    pipeline,
		messenger:   messenger,
		metrics:     m,
		logger:      logger,
		sendTimeout: 15 * time.Second,
	}
}

func (h *TranscriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	if from == "" {
		from = r.PostFormValue("Caller")
	}
	msg, err := normalizeTranscription(
		r.PostFormValue("TranscriptionText"),
		from,
		r.PostFormValue("TranscriptionStatus"),
	)
	if err != nil {
		h.metrics.MessagesTotal.WithLabelValues(string(domain.ChannelVoice), "input_error").Inc()
		h.logger.Warn("invalid transcription payload", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	msg.ID = r.Header.Get("X-Request-ID")

	h.logger.Info("transcription received", "from", pii.MaskSender(msg.Sender), "length", len(msg.Text))

	out, err := h.pipeline.Process(r.Context(), msg)
	observeOutcome(h.metrics, domain.ChannelVoice, out, err)
	switch {
	case err != nil:
		// Logged by the pipeline; the caller gets nothing rather than a
		// confusing text about a call they finished minutes ago.
	case out.NeedsClarification:
		h.logger.Info("voice extraction needs clarification, staying silent", "notes", out.Record.ValidationNotes)
	case out.Publish != nil && out.Publish.Success:
		go h.sendConfirmation(msg.Sender, responder.Confirmation(out.Record, out.Publish))
	default:
		h.logger.Warn("voice event publish failed, staying silent", "error", out.Publish.ErrorMessage)
	}

	w.WriteHeader(http.StatusOK)
}

// sendConfirmation runs detached from the request: the webhook has been
// acknowledged by the time the provider accepts the outbound message.
func (h *TranscriptionHandler) sendConfirmation(to, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), h.sendTimeout)
	defer cancel()
	if err := h.messenger.Send(ctx, to, body); err != nil {
		h.logger.Error("outbound confirmation failed", "error", err, "to", pii.MaskSender(to))
	}
}
