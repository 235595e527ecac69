// Package metrics exposes Prometheus metrics for swap executions.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the wheelx CLI.
type Metrics struct {
	// Transaction counters
	TxSubmitted prometheus.Counter
	TxConfirmed prometheus.Counter
	TxFailed    prometheus.Counter
	TxTimeout   prometheus.Counter
	Approvals   prometheus.Counter

	// Confirmation latency histogram
	ConfirmationLatency prometheus.Histogram

	// Poll attempts per transaction
	PollAttempts prometheus.Histogram

	// Gas metrics
	GasUsedTotal prometheus.Counter

	// HTTP server
	server *http.Server
	mu     sync.Mutex
}

// NewMetrics creates a new Metrics instance with the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TxSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_submitted_total",
			Help:      "Total number of transactions submitted",
		}),
		TxConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_confirmed_total",
			Help:      "Total number of transactions confirmed",
		}),
		TxFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_failed_total",
			Help:      "Total number of transactions confirmed as failed",
		}),
		TxTimeout: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_timeout_total",
			Help:      "Total number of transactions that timed out while polling",
		}),
		Approvals: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_total",
			Help:      "Total number of ERC-20 approval transactions submitted",
		}),
		ConfirmationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirmation_latency_seconds",
			Help:      "Time from broadcast to terminal confirmation state",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}),
		PollAttempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_attempts",
			Help:      "Receipt poll attempts per transaction",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 300},
		}),
		GasUsedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gas_used_total",
			Help:      "Total gas used by confirmed transactions",
		}),
	}
}

// Start starts the HTTP server for Prometheus metrics.
func (m *Metrics) Start(_ context.Context, port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return fmt.Errorf("metrics server already running")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Metrics server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully.
func (m *Metrics) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}

	err := m.server.Shutdown(ctx)
	m.server = nil
	return err
}

// RecordSubmitted increments the submitted transaction counter.
func (m *Metrics) RecordSubmitted() {
	m.TxSubmitted.Inc()
}

// RecordApproval increments the approval counter.
func (m *Metrics) RecordApproval() {
	m.Approvals.Inc()
}

// RecordConfirmed increments the confirmed counter and records latency.
func (m *Metrics) RecordConfirmed(latency time.Duration, gasUsed uint64) {
	m.TxConfirmed.Inc()
	m.ConfirmationLatency.Observe(latency.Seconds())
	m.GasUsedTotal.Add(float64(gasUsed))
}

// RecordFailed increments the failed transaction counter.
func (m *Metrics) RecordFailed() {
	m.TxFailed.Inc()
}

// RecordTimeout increments the timeout counter.
func (m *Metrics) RecordTimeout() {
	m.TxTimeout.Inc()
}

// RecordPollAttempts records the number of poll attempts for one transaction.
func (m *Metrics) RecordPollAttempts(attempts int) {
	m.PollAttempts.Observe(float64(attempts))
}

// IsRunning returns true if the metrics server is running.
func (m *Metrics) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server != nil
}
