package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ZoneOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zone_operations_total",
			Help: "Total number of traffic zone operations",
		},
		[]string{"operation"},
	)

	IncidentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_operations_total",
			Help: "Total number of incident operations",
		},
		[]string{"operation"},
	)

	SignalLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_lookups_total",
			Help: "Total number of signal status lookups by color",
		},
		[]string{"signal"},
	)

	SignalFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_feed_clients",
			Help: "Number of connected signal feed websocket clients",
		},
	)

	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
