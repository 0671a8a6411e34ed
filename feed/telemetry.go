package feed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/go-thermo/thermostate/feed")
var meter = otel.Meter("github.com/go-thermo/thermostate/feed")

const (
	// journalName is the attribute key used to associate each record with the
	// journal that produced it, so that flushes can be analysed both collectively
	// and per journal.
	journalName = "journal"
)

var (
	// flushDuration measures the duration of a single successful journal flush,
	// including the time it took to send every pending notification.
	//
	// Each record is associated with the journalName.
	flushDuration metric.Float64Histogram
	// flushFailures measures the number of failed journal flushes.
	//
	// Each record is associated with the journalName.
	flushFailures metric.Int64Counter
	// flushedChanges measures the number of notifications sent by journals.
	//
	// Each record is associated with the journalName.
	flushedChanges metric.Int64Counter
)

func init() {
	var err error
	flushDuration, err = meter.Float64Histogram(
		"thermostate.journal.flush.duration",
		metric.WithDescription("The duration of a single journal flush, including the duration it took to send every pending notification."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("feed: failed to init 'thermostate.journal.flush.duration' instrument")
	}

	flushFailures, err = meter.Int64Counter(
		"thermostate.journal.flush.failures",
		metric.WithDescription("The number of journal flushes that have failed."),
	)
	if err != nil {
		panic("feed: failed to init 'thermostate.journal.flush.failures' instrument")
	}

	flushedChanges, err = meter.Int64Counter(
		"thermostate.journal.flushed",
		metric.WithDescription("The number of state change notifications sent by journals."),
	)
	if err != nil {
		panic("feed: failed to init 'thermostate.journal.flushed' instrument")
	}
}

// measureFlush measures a journal flush using flushDuration, flushFailures and
// flushedChanges. If the flush succeeded, we record its duration and the number
// of notifications it sent. If it failed, we increment the failure counter.
func measureFlush(ctx context.Context, journal string, sent int, succeeded bool, d time.Duration) {
	attrs := attribute.NewSet(attribute.String(journalName, journal))
	if succeeded {
		duration := float64(d) / float64(time.Millisecond)
		flushDuration.Record(ctx, duration, metric.WithAttributeSet(attrs))
		flushedChanges.Add(ctx, int64(sent), metric.WithAttributeSet(attrs))
	} else {
		flushFailures.Add(ctx, 1, metric.WithAttributeSet(attrs))
	}
}
