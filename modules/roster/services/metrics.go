package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rosterMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "engine",
		Name:      "mutations_total",
		Help:      "Total number of lifecycle mutations broken down by operation and result.",
	}, []string{"operation", "result"})

	rosterWriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "engine",
		Name:      "write_conflicts_total",
		Help:      "Total number of rejected stale or duplicate writes broken down by kind.",
	}, []string{"kind"})

	rosterCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of summary cache lookups broken down by hit/miss.",
	}, []string{"result"})

	rosterPolicyRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "policy",
		Name:      "runs_total",
		Help:      "Total number of blacklist policy evaluations broken down by outcome.",
	}, []string{"outcome"})

	rosterPolicyRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "policy",
		Name:      "retries_total",
		Help:      "Total number of detached blacklist policy retry attempts.",
	})
)

func recordMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	rosterMutations.WithLabelValues(operation, result).Inc()
}

func recordWriteConflict(kind string) {
	rosterWriteConflicts.WithLabelValues(kind).Inc()
}

func recordCacheRequest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	rosterCacheRequests.WithLabelValues(result).Inc()
}

func recordPolicyRun(outcome string) {
	rosterPolicyRuns.WithLabelValues(outcome).Inc()
}
