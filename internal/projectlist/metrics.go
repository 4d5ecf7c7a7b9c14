package projectlist

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the project list.
type Metrics struct {
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheSize        prometheus.Gauge

	// FetchesTotal counts project fetches that reached the network.
	FetchesTotal *prometheus.CounterVec
}

// NewMetrics registers the project list metrics once per process.
//
// Metrics:
//   - projectboard_cache_hits_total
//   - projectboard_cache_misses_total
//   - projectboard_cache_size - pages currently cached
//   - projectboard_fetches_total{result} - "success" or "error"
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "projectboard_cache_hits_total",
				Help: "Total number of project pages served from cache",
			}),
			CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "projectboard_cache_misses_total",
				Help: "Total number of project pages not found in cache",
			}),
			CacheSize: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "projectboard_cache_size",
				Help: "Current number of cached project pages",
			}),
			FetchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "projectboard_fetches_total",
					Help: "Total number of project fetches sent to the Project Service",
				},
				[]string{"result"},
			),
		}
	})
	return globalMetrics
}
