// Package extractor calls a chat-completions style language model service to
// turn free-form announcement text into structured event records.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/validate"
)

// Config carries the connection settings for the extraction service.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Location *time.Location
}

// LLMExtractor implements domain.Extractor against an OpenAI-compatible chat
// completions endpoint. Each returned record has already been through date
// validation.
type LLMExtractor struct {
	cfg        Config
	validator  *validate.DateValidator
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an extractor for the given service settings.
func New(cfg Config, validator *validate.DateValidator, logger *slog.Logger) *LLMExtractor {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &LLMExtractor{
		cfg:        cfg,
		validator:  validator,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        time.Now,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Extract sends the announcement to the extraction service and returns the
// validated event record. The reference date handed to the model and to the
// validator is the current time in the configured timezone, so relative dates
// ("tomorrow", "next Tuesday") resolve the way the sender meant them.
func (e *LLMExtractor) Extract(ctx context.Context, msg domain.RawMessage) (*domain.EventRecord, error) {
	now := e.now().In(e.cfg.Location)

	payload, err := json.Marshal(chatRequest{
		Model:       e.cfg.Model,
		Temperature: 0,
		MaxTokens:   1024,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(now, msg)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrExtractionService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrExtractionService, resp.StatusCode, excerpt(body))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrExtractionService, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: response carried no choices", domain.ErrExtractionFormat)
	}

	record, err := decodeRecord(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.validator.Validate(record, now)
	e.logger.Debug("extracted event candidate",
		"channel", msg.Channel,
		"title", record.Title,
		"start_date", record.StartDate,
		"confidence", record.Confidence,
	)
	return record, nil
}

func excerpt(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
