package mocks

import (
	"context"
	"sync"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

// MockExtractor is a mock implementation of domain.Extractor for testing.
type MockExtractor struct {
	mu       sync.Mutex
	Messages []domain.RawMessage
	Record   *domain.EventRecord
	Err      error
}

func (m *MockExtractor) Extract(ctx context.Context, msg domain.RawMessage) (*domain.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	if m.Err != nil {
		return nil, m.Err
	}
	record := *m.Record
	return &record, nil
}

// Extracted returns how many messages the extractor has seen.
func (m *MockExtractor) Extracted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

// MockPublisher is a mock implementation of domain.EventPublisher for testing.
type MockPublisher struct {
	mu        sync.Mutex
	Published []domain.EventRecord
	Result    domain.PublishResult
}

func (m *MockPublisher) Publish(ctx context.Context, record *domain.EventRecord) domain.PublishResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, *record)
	return m.Result
}

// PublishCalls returns how many records have been published.
func (m *MockPublisher) PublishCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// OutboundMessage is one recorded MockMessenger send.
type OutboundMessage struct {
	To   string
	Body string
}

// MockMessenger is a mock implementation of domain.Messenger for testing.
type MockMessenger struct {
	mu   sync.Mutex
	Sent []OutboundMessage
	Err  error
}

func (m *MockMessenger) Send(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, OutboundMessage{To: to, Body: body})
	return nil
}

// SendCalls returns how many outbound messages have been sent.
func (m *MockMessenger) SendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// LastSent returns the most recent outbound message, or a zero value when
// nothing has been sent.
func (m *MockMessenger) LastSent() OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return OutboundMessage{}
	}
	return m.Sent[len(m.Sent)-1]
}
