package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderFlowMetrics records submission and donation activity.
type OrderFlowMetrics struct {
	submitDuration *prometheus.HistogramVec
	submitSuccess  *prometheus.CounterVec
	submitFailure  *prometheus.CounterVec
	donationSteps  *prometheus.CounterVec
}

// NewOrderFlowMetrics registers the order flow metrics on the provided registerer.
func NewOrderFlowMetrics(reg prometheus.Registerer) *OrderFlowMetrics {
	if reg == nil {
		return &OrderFlowMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_submit_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	submitSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submit_success",
		Help: "Successfully registered orders.",
	}, []string{"restaurant"})
	submitFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submit_failure",
		Help: "Failed order submissions.",
	}, []string{"reason"})
	donationSteps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_donation_steps",
		Help: "Donation increment and decrement operations.",
	}, []string{"direction"})
	reg.MustRegister(submitDuration, submitSuccess, submitFailure, donationSteps)
	return &OrderFlowMetrics{
		submitDuration: submitDuration,
		submitSuccess:  submitSuccess,
		submitFailure:  submitFailure,
		donationSteps:  donationSteps,
	}
}

// ObserveSubmit records the duration of a submission attempt.
func (m *OrderFlowMetrics) ObserveSubmit(outcome string, duration time.Duration) {
	if m == nil || m.submitDuration == nil {
		return
	}
	m.submitDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSubmitSuccess counts a registered order for the named restaurant.
func (m *OrderFlowMetrics) IncSubmitSuccess(restaurant string) {
	if m == nil || m.submitSuccess == nil {
		return
	}
	m.submitSuccess.WithLabelValues(normalizeLabel(restaurant)).Inc()
}

// IncSubmitFailure counts a failed submission with its reason.
func (m *OrderFlowMetrics) IncSubmitFailure(reason string) {
	if m == nil || m.submitFailure == nil {
		return
	}
	m.submitFailure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncDonationStep counts a donation increment or decrement.
func (m *OrderFlowMetrics) IncDonationStep(direction string) {
	if m == nil || m.donationSteps == nil {
		return
	}
	m.donationSteps.WithLabelValues(normalizeLabel(direction)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
