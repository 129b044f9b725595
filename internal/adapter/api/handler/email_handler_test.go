package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/domain/mocks"
)

func TestEmailHandler(t *testing.T) {
	t.Run("Form Post Combines Subject And Body", func(t *testing.T) {
		extractor := &mocks.MockExtractor{Record: publishableRecord()}
		h := NewEmailHandler(testPipeline(extractor, &mocks.MockPublisher{Result: domain.PublishResult{Success: true}}), testMetrics(), testLogger())

		form := url.Values{
			"from":    {"organizer@example.org"},
			"subject": {"Spring Fundraiser"},
			"text":    {"Join us April 12th at 6pm at the Latrobe firehall."},
			"html":    {"<p>Join us April 12th at 6pm at the Latrobe firehall.</p>"},
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formPost("/webhook/email", form))

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if extractor.Extracted() != 1 {
			t.Fatalf("extractions: got %d, want 1", extractor.Extracted())
		}
		msg := extractor.Messages[0]
		if msg.Channel != domain.ChannelEmail {
			t.Errorf("channel: got %q", msg.Channel)
		}
		if msg.Sender != "organizer@example.org" {
			t.Errorf("sender: got %q", msg.Sender)
		}
		want := "Subject: Spring Fundraiser\n\nJoin us April 12th at 6pm at the Latrobe firehall."
		if msg.Text != want {
			t.Errorf("text: got %q, want %q", msg.Text, want)
		}
	})

	t.Run("HTML Body Is Used When No Text Part Exists", func(t *testing.T) {
		extractor := &mocks.MockExtractor{Record: publishableRecord()}
		h := NewEmailHandler(testPipeline(extractor, &mocks.MockPublisher{Result: domain.PublishResult{Success: true}}), testMetrics(), testLogger())

		form := url.Values{
			"from":    {"organizer@example.org"},
			"subject": {"Spring Fundraiser"},
			"html":    {"<p>Join us April 12th</p>"},
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formPost("/webhook/email", form))

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if !strings.Contains(extractor.Messages[0].Text, "<p>Join us April 12th</p>") {
			t.Errorf("text: got %q", extractor.Messages[0].Text)
		}
	})

	t.Run("JSON Payload Is Accepted", func(t *testing.T) {
		extractor := &mocks.MockExtractor{Record: publishableRecord()}
		h := NewEmailHandler(testPipeline(extractor, &mocks.MockPublisher{Result: domain.PublishResult{Success: true}}), testMetrics(), testLogger())

		body := `{"from":"organizer@example.org","subject":"Potluck","text":"Saturday at noon in the park"}`
		req := httptest.NewRequest(http.MethodPost, "/webhook/email", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if got := extractor.Messages[0].Text; got != "Subject: Potluck\n\nSaturday at noon in the park" {
			t.Errorf("text: got %q", got)
		}
	})

	t.Run("Empty Email Is Rejected", func(t *testing.T) {
		h := NewEmailHandler(testPipeline(&mocks.MockExtractor{Record: publishableRecord()}, &mocks.MockPublisher{}), testMetrics(), testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formPost("/webhook/email", url.Values{"from": {"organizer@example.org"}, "subject": {"hi"}}))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("Missing Sender Is Rejected", func(t *testing.T) {
		h := NewEmailHandler(testPipeline(&mocks.MockExtractor{Record: publishableRecord()}, &mocks.MockPublisher{}), testMetrics(), testLogger())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formPost("/webhook/email", url.Values{"text": {"meeting tomorrow at noon"}}))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("Extraction Error Maps To Bad Gateway", func(t *testing.T) {
		h := NewEmailHandler(testPipeline(&mocks.MockExtractor{Err: domain.ErrExtractionService}, &mocks.MockPublisher{}), testMetrics(), testLogger())

		form := url.Values{"from": {"a@b.org"}, "text": {"meeting tomorrow"}}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, formPost("/webhook/email", form))

		if rr.Code != http.StatusBadGateway {
			t.Errorf("status: got %d, want 502", rr.Code)
		}
	})
}
