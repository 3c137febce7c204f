package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ruangkampus",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	loansCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ruangkampus",
			Name:      "loans_created_total",
			Help:      "Loan requests created.",
		},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ruangkampus",
			Name:      "loan_transitions_total",
			Help:      "Loan lifecycle transitions by action.",
		},
		[]string{"action"},
	)

	notifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ruangkampus",
			Name:      "notify_failures_total",
			Help:      "Notifications that could not be delivered.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, loansCreated, transitions, notifyFailures)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncLoanCreated counts a newly created loan request.
func IncLoanCreated() {
	loansCreated.Inc()
}

// IncTransition counts one lifecycle transition.
func IncTransition(action string) {
	transitions.WithLabelValues(action).Inc()
}

// IncNotifyFailure counts a failed notification delivery.
func IncNotifyFailure() {
	notifyFailures.Inc()
}
