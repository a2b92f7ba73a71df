package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bnema/alert-bot/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	namespace       = "alert_bot"
	shutdownTimeout = 5 * time.Second
)

// Collector holds the daemon's counters on a private registry so tests can
// build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	linesRead      prometheus.Counter
	linesMalformed prometheus.Counter
	deliveries     *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
	channelOpens   prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		linesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Lines read from the channel.",
		}),
		linesMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_malformed_total",
			Help:      "Lines dropped because they could not be decoded.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Record deliveries by handler instance and result.",
		}, []string{"handler", "result"}),
		handleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handle_duration_seconds",
			Help:      "Time spent in a handler's Handle call.",
			Buckets:   []float64{0.005, 0.05, 0.25, 1, 5, 30},
		}, []string{"handler"}),
		channelOpens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_opens_total",
			Help:      "Times the daemon opened the channel for reading.",
		}),
	}

	c.registry.MustRegister(
		c.linesRead,
		c.linesMalformed,
		c.deliveries,
		c.handleDuration,
		c.channelOpens,
	)

	return c
}

func (c *Collector) LineRead()      { c.linesRead.Inc() }
func (c *Collector) LineMalformed() { c.linesMalformed.Inc() }
func (c *Collector) ChannelOpened() { c.channelOpens.Inc() }

var _ ports.DispatchRecorder = (*Collector)(nil)

func (c *Collector) Delivery(handler string, result ports.DeliveryResult, elapsed time.Duration) {
	c.deliveries.WithLabelValues(handler, string(result)).Inc()
	if result != ports.DeliveryMissing {
		c.handleDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on listener until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, listener net.Listener, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", listener.Addr().String()))
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
