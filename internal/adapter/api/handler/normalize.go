package handler

import (
	"fmt"
	"strings"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

// normalizeSMS builds the pipeline message for an SMS webhook post. The body
// survives verbatim apart from whitespace trimming. A post without a sender
// number did not come from the provider.
func normalizeSMS(body, from string) (domain.RawMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: empty message body", domain.ErrInvalidInput)
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: missing sender number", domain.ErrInvalidInput)
	}
	return domain.RawMessage{Text: body, Channel: domain.ChannelSMS, Sender: from}, nil
}

// normalizeTranscription builds the pipeline message for a voice
// transcription callback. The caller number is required: a fresh outbound
// message is the only way to deliver the outcome.
func normalizeTranscription(text, from, status string) (domain.RawMessage, error) {
	if status != "" && !strings.EqualFold(status, "completed") {
		return domain.RawMessage{}, fmt.Errorf("%w: transcription status %q", domain.ErrInvalidInput, status)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: empty transcription text", domain.ErrInvalidInput)
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: missing caller number", domain.ErrInvalidInput)
	}
	return domain.RawMessage{Text: text, Channel: domain.ChannelVoice, Sender: from}, nil
}

// normalizeEmail prepends the subject to the body so the extractor sees both.
// The plain-text part wins; HTML is only used when no text part exists.
func normalizeEmail(subject, text, html, from string) (domain.RawMessage, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		body = strings.TrimSpace(html)
	}
	if body == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: empty email body", domain.ErrInvalidInput)
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: missing sender address", domain.ErrInvalidInput)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		body = "Subject: " + subject + "\n\n" + body
	}
	return domain.RawMessage{Text: body, Channel: domain.ChannelEmail, Sender: from}, nil
}

// normalizeManual builds the pipeline message for the manual processing API.
func normalizeManual(message string) (domain.RawMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.RawMessage{}, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	return domain.RawMessage{Text: message, Channel: domain.ChannelManual}, nil
}
