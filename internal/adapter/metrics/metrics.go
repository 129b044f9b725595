package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds all Prometheus metrics for the extraction pipeline.
type PipelineMetrics struct {
	MessagesTotal        *prometheus.CounterVec
	ExtractionsTotal     *prometheus.CounterVec
	PublishesTotal       *prometheus.CounterVec
	DateCorrectionsTotal prometheus.Counter
	RejectedTotal        *prometheus.CounterVec
}

// NewPipelineMetrics initializes the Prometheus metrics against the given
// registerer. Production code passes prometheus.DefaultRegisterer; tests pass
// a fresh registry so repeated construction cannot collide.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_agent",
			Subsystem: "pipeline",
			Name:      "messages_total",
			Help:      "Total number of processed messages by channel and outcome.",
		}, []string{"channel", "outcome"}), // outcome: published, clarification, publish_error, extraction_error, input_error
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_agent",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total number of extraction service calls by status.",
		}, []string{"status"}), // status: ok, format_error, service_error
		PublishesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_agent",
			Subsystem: "pipeline",
			Name:      "publishes_total",
			Help:      "Total number of calendar store publish attempts by status.",
		}, []string{"status"}), // status: ok, error
		DateCorrectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "calendar_agent",
			Subsystem: "pipeline",
			Name:      "date_corrections_total",
			Help:      "Total number of records whose start date validation moved.",
		}),
		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_agent",
			Subsystem: "webhook",
			Name:      "rejected_total",
			Help:      "Total number of webhook requests rejected before processing.",
		}, []string{"reason"}), // reason: signature, api_key, rate_limit
	}
}
