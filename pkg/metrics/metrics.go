package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	auditEngine = "audit_engine"

	// Audit metrics
	auditsCompletedTotal = "audits_completed_total"
	auditScoreTotal      = "audit_score"

	// Scoring metrics
	scoringDurationSeconds = "scoring_duration_seconds"
	degradedScoringsTotal  = "degraded_scorings_total"

	// Labels
	verdictLabel = "verdict"
	statusLabel  = "status"
)

var auditsCompletedTotalLabels = []string{
	statusLabel,
	verdictLabel,
}

var auditScoreLabels = []string{
	verdictLabel,
}

/**
* Metrics definition
**/
var auditsCompletedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: auditEngine,
		Name:      auditsCompletedTotal,
		Help:      "number of audits reaching a terminal state, by status and verdict",
	},
	auditsCompletedTotalLabels,
)

var auditScoreMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: auditEngine,
		Name:      auditScoreTotal,
		Help:      "distribution of final audit scores",
		Buckets:   prometheus.LinearBuckets(-50, 50, 9),
	},
	auditScoreLabels,
)

var scoringDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: auditEngine,
		Name:      scoringDurationSeconds,
		Help:      "time spent consolidating and scoring an audit",
		Buckets:   prometheus.DefBuckets,
	},
)

var degradedScoringsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: auditEngine,
		Name:      degradedScoringsTotal,
		Help:      "number of scoring runs that excluded malformed signals",
	},
)

func IncreaseAuditsCompletedMetric(status, verdict string) {
	labels := prometheus.Labels{
		statusLabel:  status,
		verdictLabel: verdict,
	}
	auditsCompletedTotalMetric.With(labels).Inc()
}

func ObserveAuditScoreMetric(verdict string, score int) {
	labels := prometheus.Labels{
		verdictLabel: verdict,
	}
	auditScoreMetric.With(labels).Observe(float64(score))
}

func ObserveScoringDurationMetric(seconds float64) {
	scoringDurationMetric.Observe(seconds)
}

func IncreaseDegradedScoringsMetric() {
	degradedScoringsTotalMetric.Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(auditsCompletedTotalMetric)
	prometheus.MustRegister(auditScoreMetric)
	prometheus.MustRegister(scoringDurationMetric)
	prometheus.MustRegister(degradedScoringsTotalMetric)
}
