package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusAbstain    = "abstain"
	StatusIneligible = "ineligible"
)

var (
	// QuoteRequests counts GetPricesVolume calls by outcome.
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibamm_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"dex", "side", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ibamm_quote_duration_seconds",
			Help:    "Quote batch duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"dex", "side"},
	)

	// QuoteCalls counts individual eth_call lookups against the router.
	QuoteCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibamm_quote_calls_total",
			Help: "Total number of router quote calls",
		},
		[]string{"function", "status"},
	)

	SnapshotsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibamm_snapshots_recorded_total",
			Help: "Total number of quote snapshots written by sink",
		},
		[]string{"sink"},
	)

	LastQuotedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ibamm_last_quoted_block",
		Help: "Block number of the most recent recorded quote",
	})
)
