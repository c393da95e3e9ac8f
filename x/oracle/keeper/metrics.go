package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OracleMetrics holds all Prometheus metrics for the Oracle module
type OracleMetrics struct {
	// Submission metrics
	SubmissionsTotal *prometheus.CounterVec

	// Round metrics
	RoundsTotal        *prometheus.CounterVec
	AggregationLatency prometheus.Histogram

	// Feed metrics
	ConsensusValue *prometheus.GaugeVec
	Dispersion     *prometheus.GaugeVec

	// Reporter metrics
	ReporterReputation *prometheus.GaugeVec
	SlashingEvents     *prometheus.CounterVec
}

var (
	oracleMetricsOnce sync.Once
	oracleMetrics     *OracleMetrics
)

// NewOracleMetrics creates and registers Oracle metrics (singleton pattern)
func NewOracleMetrics() *OracleMetrics {
	oracleMetricsOnce.Do(func() {
		oracleMetrics = &OracleMetrics{
			SubmissionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "submissions_total",
					Help:      "Total value submissions by feed and validation result",
				},
				[]string{"feed", "result"},
			),
			RoundsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "rounds_total",
					Help:      "Total closed rounds by feed and outcome",
				},
				[]string{"feed", "outcome"},
			),
			AggregationLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "aggregation_seconds",
					Help:      "Wall-clock time spent aggregating a round",
					Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
				},
			),
			ConsensusValue: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "consensus_value",
					Help:      "Latest consensus value per numeric feed",
				},
				[]string{"feed"},
			),
			Dispersion: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "dispersion_score",
					Help:      "Dispersion score of the latest aggregated round per feed",
				},
				[]string{"feed"},
			),
			ReporterReputation: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "reporter_reputation",
					Help:      "Current reputation score per reporter",
				},
				[]string{"reporter"},
			),
			SlashingEvents: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclechain",
					Subsystem: "oracle",
					Name:      "slashing_events_total",
					Help:      "Total slashing events per reporter",
				},
				[]string{"reporter"},
			),
		}
	})
	return oracleMetrics
}
