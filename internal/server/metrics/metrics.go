// Package metrics exposes Prometheus metrics for the provisioning workflow
// and the panel API.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests and multiple instances never
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	panelCallsTotal   *prometheus.CounterVec
	panelLatency      *prometheus.HistogramVec
	nodeServers       *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "freepanel",
				Subsystem: "provisioning",
				Name:      "operations_total",
				Help:      "Total number of workflow operations by outcome",
			},
			[]string{"operation", "result"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "freepanel",
				Subsystem: "provisioning",
				Name:      "duration_seconds",
				Help:      "Duration of workflow operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"operation"},
		),

		panelCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "freepanel",
				Subsystem: "panel",
				Name:      "api_calls_total",
				Help:      "Total number of panel API calls by operation and result",
			},
			[]string{"operation", "result"},
		),

		panelLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "freepanel",
				Subsystem: "panel",
				Name:      "api_latency_seconds",
				Help:      "Latency of panel API calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"operation"},
		),

		nodeServers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "freepanel",
				Name:      "node_servers",
				Help:      "Servers on the node as last counted by a capacity check",
			},
			[]string{"node"},
		),
	}

	r.registry.MustRegister(
		r.operationsTotal,
		r.operationDuration,
		r.panelCallsTotal,
		r.panelLatency,
		r.nodeServers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOperation records one Register or ProvisionServer outcome.
func (r *Recorder) ObserveOperation(operation, result string, elapsed time.Duration) {
	r.operationsTotal.WithLabelValues(operation, result).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObservePanelCall records one panel API call.
func (r *Recorder) ObservePanelCall(operation, result string, elapsed time.Duration) {
	r.panelCallsTotal.WithLabelValues(operation, result).Inc()
	r.panelLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetNodeServers records the server count seen on node.
func (r *Recorder) SetNodeServers(node int64, count int) {
	r.nodeServers.WithLabelValues(strconv.FormatInt(node, 10)).Set(float64(count))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info(ctx, "metrics server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
