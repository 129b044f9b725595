package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/AIworks24/calendar-agent/internal/adapter/api/handler"
	"github.com/AIworks24/calendar-agent/internal/adapter/api/middleware"
	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/adapter/responder"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/pkg/config"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

const transcriptionPath = "/webhook/voice/transcription"

// NewRouter creates and configures the main HTTP router for the agent.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	pipeline *usecase.ProcessMessageUseCase,
	messenger domain.Messenger,
	m *metrics.PipelineMetrics,
) http.Handler {
	mux := http.NewServeMux()

	// Handlers
	smsHandler := handler.NewSMSHandler(pipeline, m, logger)
	voiceHandler := handler.NewVoicePromptHandler(responder.DefaultVoicePrompt, transcriptionPath, logger)
	transcriptionHandler := handler.NewTranscriptionHandler(pipeline, messenger, m, logger)
	emailHandler := handler.NewEmailHandler(pipeline, m, logger)
	manualHandler := handler.NewManualHandler(pipeline, m, logger)

	// Middleware
	bodyLimit := middleware.BodyLimit(cfg.MaxBodyBytes)
	rateLimit := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, m, logger).Middleware
	verifySignature := middleware.VerifySignature(cfg.WebhookAuthToken, m, logger)
	requireAPIKey := middleware.RequireAPIKey(cfg.ManualAPIKey, m, logger)
	recovery := middleware.Recover(logger)

	// Provider webhooks are signed forms. The SMS handler carries its own
	// recovery so a panic still yields a reply document; the rest take the
	// generic one.
	webhook := func(h http.Handler) http.Handler {
		return bodyLimit(rateLimit(verifySignature(h)))
	}
	mux.Handle("POST /webhook/sms", webhook(smsHandler))
	mux.Handle("POST /webhook/voice", webhook(recovery(voiceHandler)))
	mux.Handle("POST "+transcriptionPath, webhook(recovery(transcriptionHandler)))
	mux.Handle("POST /webhook/email", webhook(recovery(emailHandler)))

	// Manual API speaks JSON and authenticates with a shared key.
	mux.Handle("POST /api/process", bodyLimit(rateLimit(requireAPIKey(recovery(manualHandler)))))

	// Health check
	mux.HandleFunc("GET /health", HealthHandler)

	return mux
}

// HealthHandler reports liveness. It is mounted on the webhook listener and
// on the metrics listener, so probes work against either port.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
