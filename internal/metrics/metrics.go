package metrics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every gamedb collector. It is never served over the network.
var Registry = prometheus.NewRegistry()

var (
	VideoGamesTotal = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "gamedb_videogames_total",
		Help: "Number of video games in the store.",
	})

	StoreOperations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "gamedb_store_operations_total",
		Help: "Store operations executed, by operation and result.",
	}, []string{"op", "result"}) // result: ok, error

	StoreOperationDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamedb_store_operation_duration_seconds",
		Help:    "Duration of store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

// RecordOperation counts one store operation and observes its duration.
func RecordOperation(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(op, result).Inc()
	StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Counter reports how many games a store holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// UpdateStoreMetrics refreshes gauges that reflect the current state of the store.
func UpdateStoreMetrics(ctx context.Context, c Counter) error {
	games, err := c.Count(ctx)
	if err != nil {
		return err
	}
	VideoGamesTotal.Set(float64(games))
	return nil
}

// WriteText writes every collector in Registry to w in the Prometheus text
// exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
