package handler

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/domain"
)

// writeTwiML writes an XML reply document. The provider expects a 200 with a
// document even when processing failed; the failure text rides inside.
func writeTwiML(w http.ResponseWriter, logger *slog.Logger, doc any) {
	out, err := xml.Marshal(doc)
	if err != nil {
		logger.Error("failed to marshal reply document", "error", err)
		out = []byte("<Response></Response>")
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observeOutcome feeds the pipeline metrics for one processed message.
func observeOutcome(m *metrics.PipelineMetrics, channel domain.Channel, out *domain.Outcome, err error) {
	if err == nil && out.Record != nil && out.Record.DateCorrected {
		m.DateCorrectionsTotal.Inc()
	}
	switch {
	case err != nil:
		m.MessagesTotal.WithLabelValues(string(channel), "extraction_error").Inc()
		if errors.Is(err, domain.ErrExtractionFormat) {
			m.ExtractionsTotal.WithLabelValues("format_error").Inc()
		} else {
			m.ExtractionsTotal.WithLabelValues("service_error").Inc()
		}
	case out.NeedsClarification:
		m.ExtractionsTotal.WithLabelValues("ok").Inc()
		m.MessagesTotal.WithLabelValues(string(channel), "clarification").Inc()
	case out.Publish != nil && out.Publish.Success:
		m.ExtractionsTotal.WithLabelValues("ok").Inc()
		m.PublishesTotal.WithLabelValues("ok").Inc()
		m.MessagesTotal.WithLabelValues(string(channel), "published").Inc()
	default:
		m.ExtractionsTotal.WithLabelValues("ok").Inc()
		m.PublishesTotal.WithLabelValues("error").Inc()
		m.MessagesTotal.WithLabelValues(string(channel), "publish_error").Inc()
	}
}
