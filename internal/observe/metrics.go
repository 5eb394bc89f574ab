// Package observe provides OpenTelemetry metric instruments for analysis and
// progress tracking. Without a configured MeterProvider the instruments are no-ops.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/verte-zerg/articulate"

// Metrics holds the application metric instruments. Safe for concurrent use.
type Metrics struct {
	// AttemptsIngested counts ingested attempts by exercise.
	AttemptsIngested metric.Int64Counter

	// AchievementsUnlocked counts unlocked achievements by id.
	AchievementsUnlocked metric.Int64Counter

	// StoreErrors counts swallowed key-value store failures by operation.
	StoreErrors metric.Int64Counter

	// AnalysisDuration tracks how long a transcript analysis takes.
	AnalysisDuration metric.Float64Histogram
}

var analysisBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AttemptsIngested, err = m.Int64Counter("articulate.attempts.ingested",
		metric.WithDescription("Exercise attempts folded into user progress."),
	); err != nil {
		return nil, err
	}
	if met.AchievementsUnlocked, err = m.Int64Counter("articulate.achievements.unlocked",
		metric.WithDescription("Achievements awarded by id."),
	); err != nil {
		return nil, err
	}
	if met.StoreErrors, err = m.Int64Counter("articulate.store.errors",
		metric.WithDescription("Key-value store failures treated as absent or dropped."),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("articulate.analysis.duration",
		metric.WithDescription("Latency of transcript analysis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(analysisBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a shared instance built on otel.GetMeterProvider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordIngest counts one ingested attempt.
func (m *Metrics) RecordIngest(ctx context.Context, exerciseID string) {
	m.AttemptsIngested.Add(ctx, 1,
		metric.WithAttributes(attribute.String("exercise", exerciseID)),
	)
}

// RecordUnlock counts one awarded achievement.
func (m *Metrics) RecordUnlock(ctx context.Context, achievementID string) {
	m.AchievementsUnlocked.Add(ctx, 1,
		metric.WithAttributes(attribute.String("achievement", achievementID)),
	)
}

// RecordStoreError counts one swallowed store failure.
func (m *Metrics) RecordStoreError(ctx context.Context, op string) {
	m.StoreErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", op)),
	)
}

// ObserveAnalysis records the time elapsed since start.
func (m *Metrics) ObserveAnalysis(ctx context.Context, start time.Time) {
	m.AnalysisDuration.Record(ctx, time.Since(start).Seconds())
}
