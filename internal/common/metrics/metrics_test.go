package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New("")
	b := New("")
	require.NotNil(t, a.Registry())
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestMiddleware_RecordsRequests(t *testing.T) {
	m := New("test")
	r := gin.New()
	r.Use(m.Middleware("/metrics"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpRequestsInFlight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestDomainRecorders(t *testing.T) {
	m := New("test")

	m.RecordBookingCreated("accommodation")
	m.RecordBookingTransition("pending", "approved")
	m.RecordCommissionStatus("paid")
	m.RecordPayment("bank_transfer", "completed")
	m.RecordDegradedRead("agent_stats")
	m.RecordCacheHit("public_stats")
	m.RecordCacheMiss("public_stats")
	m.RecordEvent("booking.created", true)
	m.SetPendingBookings(4)
	m.SetPendingAgents(2)
	m.SetActiveAgents(7)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("accommodation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingTransitions.WithLabelValues("pending", "approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.degradedReadsTotal.WithLabelValues("agent_stats")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.pendingBookings))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.activeAgents))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordBookingCreated("vehicle_rent")
		m.RecordDegradedRead("x")
		m.SetActiveAgents(1)
		m.RecordEvent("x", false)
	})
}
