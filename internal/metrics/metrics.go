package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector aggregates the service's operational metrics on a private
// registry, served on a dedicated listener away from the app routes.
type Collector struct {
	reg *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec // labels: method, path, status
	RequestDuration prometheus.Histogram

	LoginAttempts    *prometheus.CounterVec // label: outcome (success|failure)
	RidershipInserts prometheus.Counter
	InsertFailures   prometheus.Counter
}

// NewCollector builds and registers all metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transitboard_http_requests_total",
			Help: "HTTP requests served, by method, path and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transitboard_http_request_duration_seconds",
			Help:    "HTTP request handling duration.",
			Buckets: prometheus.DefBuckets,
		}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transitboard_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		RidershipInserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitboard_ridership_inserts_total",
			Help: "Ridership facts inserted.",
		}),
		InsertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitboard_ridership_insert_failures_total",
			Help: "Ridership insert attempts rejected or failed.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		c.HTTPRequests,
		c.RequestDuration,
		c.LoginAttempts,
		c.RidershipInserts,
		c.InsertFailures,
	)

	return c
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve runs the metrics listener until the context is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting metrics listener", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
