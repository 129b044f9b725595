package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/domain/mocks"
	"github.com/AIworks24/calendar-agent/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.PipelineMetrics {
	return metrics.NewPipelineMetrics(prometheus.NewRegistry())
}

func testPipeline(extractor domain.Extractor, publisher domain.EventPublisher) *usecase.ProcessMessageUseCase {
	return usecase.NewProcessMessageUseCase(extractor, publisher, testLogger())
}

func publishableRecord() *domain.EventRecord {
	return &domain.EventRecord{
		Title:      "GOP Meeting",
		StartDate:  "2025-12-08",
		StartTime:  "18:30:00",
		EndDate:    "2025-12-08",
		EndTime:    "20:00:00",
		Location:   "Community Center",
		Confidence: domain.ConfidenceHigh,
	}
}

func formPost(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// panickingExtractor blows up mid-pipeline so tests can watch the recovery
// path.
type panickingExtractor struct{}

func (panickingExtractor) Extract(ctx context.Context, msg domain.RawMessage) (*domain.EventRecord, error) {
	panic("extractor exploded")
}

// waitForSends polls the mock messenger until it has seen n sends or the
// deadline passes.
func waitForSends(m *mocks.MockMessenger, n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.SendCalls() >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return m.SendCalls() >= n
}
