package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Services hold a
// possibly-nil *Metrics; the increment helpers are nil-safe so tests don't
// need a registry.
type Metrics struct {
	ReferentsCreated   prometheus.Counter
	ReferentsConfirmed prometheus.Counter
	ReferentsDeclined  prometheus.Counter
	RemindersSent      prometheus.Counter
	QuestionsSent      prometheus.Counter
	EmailsFailed       prometheus.Counter
	RequestLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReferentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_referents_created_total",
			Help: "Total number of referent records created",
		}),
		ReferentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_referents_confirmed_total",
			Help: "Total number of referents that confirmed",
		}),
		ReferentsDeclined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_referents_declined_total",
			Help: "Total number of referents that declined",
		}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_reminders_sent_total",
			Help: "Total number of reminder emails dispatched",
		}),
		QuestionsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_questions_sent_total",
			Help: "Total number of reference-question emails dispatched",
		}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndoors_emails_failed_total",
			Help: "Total number of outbound emails that failed to send",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ndoors_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// IncrementReferentsCreated increments the referents created counter by 1.
func (m *Metrics) IncrementReferentsCreated() {
	if m != nil {
		m.ReferentsCreated.Inc()
	}
}

// IncrementReferentsConfirmed increments the confirmed counter by 1.
func (m *Metrics) IncrementReferentsConfirmed() {
	if m != nil {
		m.ReferentsConfirmed.Inc()
	}
}

// IncrementReferentsDeclined increments the declined counter by 1.
func (m *Metrics) IncrementReferentsDeclined() {
	if m != nil {
		m.ReferentsDeclined.Inc()
	}
}

// IncrementRemindersSent increments the reminders counter by 1.
func (m *Metrics) IncrementRemindersSent() {
	if m != nil {
		m.RemindersSent.Inc()
	}
}

// IncrementQuestionsSent increments the questions counter by 1.
func (m *Metrics) IncrementQuestionsSent() {
	if m != nil {
		m.QuestionsSent.Inc()
	}
}

// IncrementEmailsFailed increments the failed email counter by 1.
func (m *Metrics) IncrementEmailsFailed() {
	if m != nil {
		m.EmailsFailed.Inc()
	}
}

// ObserveRequest records a request latency sample.
func (m *Metrics) ObserveRequest(route, method string, seconds float64) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(seconds)
	}
}
