package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
	"github.com/AIworks24/calendar-agent/internal/domain"
)

// ProcessMessageUseCase handles the business logic for one inbound
// announcement: extraction, the confidence gate and publication. It holds no
// state between calls; concurrent requests share nothing.
type ProcessMessageUseCase struct {
	extractor domain.Extractor
	publisher domain.EventPublisher
	logger    *slog.Logger
}

// NewProcessMessageUseCase creates a new ProcessMessageUseCase.
func NewProcessMessageUseCase(extractor domain.Extractor, publisher domain.EventPublisher, logger *slog.Logger) *ProcessMessageUseCase {
	return &ProcessMessageUseCase{
		extractor: extractor,
		publisher: publisher,
		logger:    logger,
	}
}

// Process runs the pipeline for one message and reports what happened so the
// channel handler can render the appropriate reply.
func (uc *ProcessMessageUseCase) Process(ctx context.Context, msg domain.RawMessage) (*domain.Outcome, error) {
	// 1. Tag for correlation
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	// 2. Extract a structured candidate. Date validation runs inside the
	// extractor, so the record comes back repaired and annotated.
	record, err := uc.extractor.Extract(ctx, msg)
	if err != nil {
		uc.logger.Error("extraction failed", "error", err, "message_id", msg.ID, "channel", msg.Channel, "sender", pii.MaskSender(msg.Sender))
		return nil, err
	}

	// 3. Gate on confidence. Low-confidence records are never published;
	// the sender is asked for the missing details instead.
	if record.Confidence == domain.ConfidenceLow {
		uc.logger.Info("extraction needs clarification",
			"message_id", msg.ID,
			"channel", msg.Channel,
			"title", record.Title,
			"notes", record.ValidationNotes,
		)
		return &domain.Outcome{Record: record, NeedsClarification: true}, nil
	}

	// 4. Publish to the calendar store. Failures ride back in the result.
	result := uc.publisher.Publish(ctx, record)
	if result.Success {
		uc.logger.Info("event published",
			"message_id", msg.ID,
			"channel", msg.Channel,
			"title", record.Title,
			"event_id", result.EventID,
			"confidence", record.Confidence,
		)
	} else {
		uc.logger.Warn("publish failed",
			"message_id", msg.ID,
			"channel", msg.Channel,
			"title", record.Title,
			"error", result.ErrorMessage,
		)
	}

	return &domain.Outcome{Record: record, Publish: &result}, nil
}
