package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/me/offers", "GET", 200, 15*time.Millisecond)
	m.RecordError("/me/offers/:id/accept", "POST", "INVALID_TRANSITION")
	m.RecordOfferTransition("accepted")
	m.RecordOfferTransition("accepted")
	m.RecordAuditFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/me/offers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("POST", "/me/offers/:id/accept", "INVALID_TRANSITION")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.offerTransitions.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditFailures))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordOfferTransition("declined")
		m.RecordAuditFailure()
	})
}
