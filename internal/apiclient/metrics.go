package apiclient

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts upstream calls. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio_dashboard",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Backend API requests by resource, method and status code.",
		}, []string{"resource", "method", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio_dashboard",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Backend API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio_dashboard",
			Subsystem: "upstream",
			Name:      "token_refresh_total",
			Help:      "Token refresh attempts after a 401.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observe(method, endpoint string, code int, took time.Duration) {
	if m == nil {
		return
	}
	res := resourceOf(endpoint)
	c := "error"
	if code > 0 {
		c = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(res, method, c).Inc()
	m.duration.WithLabelValues(res, method).Observe(took.Seconds())
}

func (m *Metrics) refresh(ok bool) {
	if m == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

// resourceOf keeps label cardinality bounded: "/employees/42/activate" -> "employees".
func resourceOf(endpoint string) string {
	p := strings.TrimPrefix(endpoint, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
