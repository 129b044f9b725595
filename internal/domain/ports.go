package domain

import "context"

// Extractor turns a raw announcement into a structured, validated event
// candidate. Implementations return ErrExtractionService when the call to
// the extraction service fails and ErrExtractionFormat when its response
// cannot be parsed into a record.
type Extractor interface {
	Extract(ctx context.Context, msg RawMessage) (*EventRecord, error)
}

// EventPublisher writes a validated record to the external calendar store.
// Store rejections and transport failures come back inside the PublishResult
// rather than as an error, so callers always have something to render.
type EventPublisher interface {
	Publish(ctx context.Context, record *EventRecord) PublishResult
}

// Messenger originates an outbound text message, used to confirm events that
// arrived through channels with no inline reply (voice transcriptions).
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}
