package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "authz_decisions_total",
		Help: "Number of permission checks, by result.",
	}, []string{"result"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "authz_cache_requests_total",
		Help: "Number of permission cache lookups, by result.",
	}, []string{"result"})
)

func countDecision(allowed bool, err error) {
	switch {
	case err != nil:
		decisions.WithLabelValues("error").Inc()
	case allowed:
		decisions.WithLabelValues("allow").Inc()
	default:
		decisions.WithLabelValues("deny").Inc()
	}
}
