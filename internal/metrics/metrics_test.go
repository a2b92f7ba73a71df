package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/alert-bot/internal/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	c := NewCollector()

	c.LineRead()
	c.LineRead()
	c.LineMalformed()
	c.ChannelOpened()
	c.Delivery("print", ports.DeliveryDelivered, 10*time.Millisecond)
	c.Delivery("print", ports.DeliveryDelivered, 10*time.Millisecond)
	c.Delivery("tg", ports.DeliveryFailed, time.Second)
	c.Delivery("ghost", ports.DeliveryMissing, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.linesRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.linesMalformed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.channelOpens))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.deliveries.WithLabelValues("print", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deliveries.WithLabelValues("tg", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deliveries.WithLabelValues("ghost", "missing")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.handleDuration))
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.Delivery("logger", ports.DeliveryDelivered, time.Millisecond)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `alert_bot_deliveries_total{handler="logger",result="delivered"} 1`)
}

func TestCollectorServeStopsWithContext(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	c := NewCollector()
	c.LineRead()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx, listener, zap.NewNop()) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "alert_bot_lines_read_total 1")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
