package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.PipelineMetrics {
	return metrics.NewPipelineMetrics(prometheus.NewRegistry())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestVerifySignature(t *testing.T) {
	const token = "secret-token"
	handler := VerifySignature(token, testMetrics(), testLogger())(okHandler())
	form := url.Values{"From": {"+15551234567"}, "Body": {"Board meeting Monday"}}

	t.Run("Valid Signature", func(t *testing.T) {
		req := formRequest("http://agent.example.org/webhook/sms", form)
		req.Header.Set(SignatureHeader, ComputeSignature(token, "http://agent.example.org/webhook/sms", form))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("Tampered Body", func(t *testing.T) {
		tampered := url.Values{"From": {"+15551234567"}, "Body": {"something else entirely"}}
		req := formRequest("http://agent.example.org/webhook/sms", tampered)
		req.Header.Set(SignatureHeader, ComputeSignature(token, "http://agent.example.org/webhook/sms", form))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
	})

	t.Run("Missing Signature", func(t *testing.T) {
		req := formRequest("http://agent.example.org/webhook/sms", form)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
	})

	t.Run("Empty Token Disables Verification", func(t *testing.T) {
		open := VerifySignature("", testMetrics(), testLogger())(okHandler())
		req := formRequest("http://agent.example.org/webhook/sms", form)

		rr := httptest.NewRecorder()
		open.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequireAPIKey(t *testing.T) {
	handler := RequireAPIKey("manual-key", testMetrics(), testLogger())(okHandler())

	t.Run("Valid Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(`{}`))
		req.Header.Set(APIKeyHeader, "manual-key")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("Invalid Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(`{}`))
		req.Header.Set(APIKeyHeader, "wrong")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"error"`) {
			t.Errorf("body: got %q, want a JSON error", rr.Body.String())
		}
	})

	t.Run("Empty Key Disables Check", func(t *testing.T) {
		open := RequireAPIKey("", testMetrics(), testLogger())(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(`{}`))

		rr := httptest.NewRecorder()
		open.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(60, 2, testMetrics(), testLogger())
	handler := rl.Middleware(okHandler())
	form := url.Values{"From": {"+15551234567"}, "Body": {"hello"}}

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, formRequest("/webhook/sms", form))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, formRequest("/webhook/sms", form))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded: got %d, want 429", rr.Code)
	}

	// A different sender has its own bucket.
	other := url.Values{"From": {"+15559998888"}, "Body": {"hello"}}
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, formRequest("/webhook/sms", other))
	if rr.Code != http.StatusOK {
		t.Errorf("other sender: got %d, want 200", rr.Code)
	}
}
