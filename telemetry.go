package thermostate

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/go-thermo/thermostate")

const (
	// stateKind is the attribute key used to associate each record with the kind
	// of the state that produced it. This enables analysis of metrics, such as
	// oracleDuration and oracleFailures, both collectively across all kinds and
	// individually per kind.
	stateKind = "kind"
	// oracleCode is the attribute key of the oracle code that was evaluated.
	oracleCode = "code"
	// rejectionReason is the attribute key of the class of a rejected write.
	rejectionReason = "reason"
)

var (
	// oracleDuration measures the duration of a single successful Oracle
	// evaluation.
	//
	// Each record is associated with the stateKind and the oracleCode.
	oracleDuration metric.Float64Histogram
	// oracleFailures measures the number of Oracle evaluations that reported no
	// valid solution.
	//
	// Each record is associated with the stateKind and the oracleCode.
	oracleFailures metric.Int64Counter
	// rejectedWrites measures the number of refused property writes.
	//
	// Each record is associated with the stateKind and the rejectionReason.
	rejectedWrites metric.Int64Counter
	// cacheRecomputations measures the number of derived values computed because
	// the cache held no value for the current version of a state.
	//
	// Each record is associated with the stateKind and the oracleCode.
	cacheRecomputations metric.Int64Counter
)

func init() {
	var err error
	oracleDuration, err = meter.Float64Histogram(
		"thermostate.oracle.duration",
		metric.WithDescription("The duration of a single successful oracle evaluation."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("thermostate: failed to init 'thermostate.oracle.duration' instrument")
	}

	oracleFailures, err = meter.Int64Counter(
		"thermostate.oracle.failures",
		metric.WithDescription("The number of oracle evaluations that reported no valid solution."),
	)
	if err != nil {
		panic("thermostate: failed to init 'thermostate.oracle.failures' instrument")
	}

	rejectedWrites, err = meter.Int64Counter(
		"thermostate.writes.rejected",
		metric.WithDescription("The number of property writes a state refused."),
	)
	if err != nil {
		panic("thermostate: failed to init 'thermostate.writes.rejected' instrument")
	}

	cacheRecomputations, err = meter.Int64Counter(
		"thermostate.cache.recomputations",
		metric.WithDescription("The number of derived values computed on a cache miss."),
	)
	if err != nil {
		panic("thermostate: failed to init 'thermostate.cache.recomputations' instrument")
	}
}

// measureOracle records a single Oracle evaluation. If the evaluation succeeded,
// we record its duration. If it failed, we increment the failure counter.
//
// According to [metric] documentation, [metric.WithAttributeSet] should be used
// instead of [metric.WithAttributes] for performance optimization.
func measureOracle(kind, code string, succeeded bool, d time.Duration) {
	attrs := attribute.NewSet(
		attribute.String(stateKind, kind),
		attribute.String(oracleCode, code),
	)
	if succeeded {
		// floating-point division keeps sub-millisecond precision
		duration := float64(d) / float64(time.Millisecond)
		oracleDuration.Record(context.Background(), duration, metric.WithAttributeSet(attrs))
	} else {
		oracleFailures.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
	}
}

func measureRejection(kind, reason string) {
	attrs := attribute.NewSet(
		attribute.String(stateKind, kind),
		attribute.String(rejectionReason, reason),
	)
	rejectedWrites.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
}

func measureRecomputation(kind, code string) {
	attrs := attribute.NewSet(
		attribute.String(stateKind, kind),
		attribute.String(oracleCode, code),
	)
	cacheRecomputations.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
}
