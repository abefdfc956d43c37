// Package ops exposes the operational HTTP surface: health checks and
// prometheus metrics. It carries no domain endpoints.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type healthStatus string

const (
	statusHealthy  healthStatus = "healthy"
	statusDegraded healthStatus = "degraded"
	statusDown     healthStatus = "down"
)

const (
	dbDegradedLatency       = 100 * time.Millisecond
	outboxPendingDegraded   = int64(1000)
	healthEndpointTimeout   = 5 * time.Second
	defaultPrometheusRoute  = "/debug/prometheus"
	defaultHealthCheckRoute = "/health"
)

type healthResponse struct {
	Status    healthStatus   `json:"status"`
	Timestamp string         `json:"timestamp"`
	Checks    map[string]any `json:"checks"`
}

type componentHealth struct {
	Status       healthStatus   `json:"status"`
	ResponseTime string         `json:"responseTime,omitempty"`
	Error        string         `json:"error,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type Router struct {
	pool        *pgxpool.Pool
	outboxTable string
	logger      *logrus.Entry
}

func NewRouter(pool *pgxpool.Pool, outboxTable string, logger *logrus.Entry) *Router {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Router{
		pool:        pool,
		outboxTable: outboxTable,
		logger:      logger.WithField("component", "ops"),
	}
}

func (rt *Router) Handler(prometheusPath string) http.Handler {
	if prometheusPath == "" {
		prometheusPath = defaultPrometheusRoute
	}

	r := mux.NewRouter()
	r.HandleFunc(defaultHealthCheckRoute, rt.getHealth).Methods(http.MethodGet)
	r.Handle(prometheusPath, promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (rt *Router) getHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthEndpointTimeout)
	defer cancel()

	checks := make(map[string]any)
	overall := statusHealthy

	db := rt.checkDatabase(ctx)
	checks["database"] = db
	if db.Status == statusDown {
		overall = statusDown
	} else if db.Status == statusDegraded {
		overall = statusDegraded
	}

	if rt.outboxTable != "" && overall != statusDown {
		ob := rt.checkOutbox(ctx)
		checks["outbox"] = ob
		if ob.Status == statusDegraded && overall == statusHealthy {
			overall = statusDegraded
		}
	}

	status := http.StatusOK
	if overall == statusDown {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}); err != nil {
		rt.logger.WithError(err).Warn("failed to encode health response")
	}
}

func (rt *Router) checkDatabase(ctx context.Context) componentHealth {
	start := time.Now()
	err := rt.pool.Ping(ctx)
	latency := time.Since(start)

	out := componentHealth{Status: statusHealthy, ResponseTime: latency.String()}
	if err != nil {
		out.Status = statusDown
		out.Error = err.Error()
		return out
	}
	if latency > dbDegradedLatency {
		out.Status = statusDegraded
	}
	return out
}

func (rt *Router) checkOutbox(ctx context.Context) componentHealth {
	var pending int64
	err := rt.pool.QueryRow(ctx,
		`SELECT count(*) FROM `+rt.outboxTable+` WHERE published_at IS NULL`,
	).Scan(&pending)

	out := componentHealth{Status: statusHealthy, Details: map[string]any{"pending": pending}}
	if err != nil {
		out.Status = statusDegraded
		out.Error = err.Error()
		return out
	}
	if pending > outboxPendingDegraded {
		out.Status = statusDegraded
	}
	return out
}
