package messenger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendPostsFormEncodedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("basic auth: got %q %q %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("To"); got != "+15551234567" {
			t.Errorf("To: got %q", got)
		}
		if got := r.PostFormValue("From"); got != "+15550001111" {
			t.Errorf("From: got %q", got)
		}
		if got := r.PostFormValue("Body"); got != "Event created: GOP Meeting" {
			t.Errorf("Body: got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := NewClient(server.URL, "AC123", "token", "+15550001111", 5*time.Second, testLogger())
	if err := c.Send(context.Background(), "+15551234567", "Event created: GOP Meeting"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestSendReportsProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "authentication failed"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "AC123", "bad-token", "+15550001111", 5*time.Second, testLogger())
	if err := c.Send(context.Background(), "+15551234567", "hello"); err == nil {
		t.Fatal("Send() returned nil for a 401 response")
	}
}

func TestLogOnlyNeverFails(t *testing.T) {
	l := NewLogOnly(testLogger())
	if err := l.Send(context.Background(), "+15551234567", "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}
