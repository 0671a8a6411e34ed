// Package feed distributes state change notifications over a pubsub service.
//
// A Journal observes states and publishes their thermostate.Changed
// notifications to a topic; Track consumes them from a subscription into a View,
// a concurrency-safe projection of the latest known content of every observed
// state.
package feed

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gocloud.dev/pubsub"
	"golang.org/x/sync/errgroup"

	"github.com/go-thermo/thermostate"
)

// StateIDKey is the message metadata key holding the identifier of the state a
// notification is about. Brokers that partition by key (e.g. Kafka) thereby
// deliver the notifications of a single state in order.
const StateIDKey = "stateID"

// Journal buffers the change notifications of any number of states, and
// publishes them to a topic when flushed. Register it with
// thermostate.WithObserver.
//
// A Journal is safe for concurrent use, so states owned by different goroutines
// may share it.
type Journal struct {
	name   string
	sink   *pubsub.Topic
	logger *slog.Logger

	mu      sync.Mutex
	pending []thermostate.Changed
}

// NewJournal returns an empty journal publishing to sink. Its name labels its
// logs and metrics (e.g. "boiler-room").
func NewJournal(name string, sink *pubsub.Topic, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Journal{
		name:   name,
		sink:   sink,
		logger: logger.With(slog.String("journal", name)),
	}
}

// StateChanged records c for the next flush. Empty notifications (see
// thermostate.Changed.IsEmpty) are recorded too, as they carry version changes.
func (j *Journal) StateChanged(c thermostate.Changed) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(j.pending, c)
}

// Pending returns the number of notifications waiting to be flushed.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush sends every pending notification to the journal's topic.
//
// Notifications about different states are sent concurrently; those about a
// single state are sent one at a time, in the order they were recorded. If any
// send fails, Flush returns an error and keeps the notifications that were not
// sent, in order, ahead of those recorded in the meantime.
func (j *Journal) Flush(ctx context.Context) (err error) {
	j.mu.Lock()
	batch := j.pending
	j.pending = nil
	j.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "journal.Flush", trace.WithAttributes(
		attribute.String("journal.name", j.name),
		attribute.Int("journal.pending", len(batch)),
	))
	defer span.End()

	defer func(start time.Time) {
		measureFlush(ctx, j.name, len(batch), err == nil, time.Since(start))
	}(time.Now())

	// partition by state, preserving the recorded order within each state
	var order []uuid.UUID
	byState := make(map[uuid.UUID][]thermostate.Changed)
	for _, c := range batch {
		if _, ok := byState[c.StateID]; !ok {
			order = append(order, c.StateID)
		}
		byState[c.StateID] = append(byState[c.StateID], c)
	}

	sent := make([]int, len(order)) // per state, how many were sent
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range order {
		changes := byState[id]
		g.Go(func() error {
			for _, c := range changes {
				if err := j.send(gctx, c); err != nil {
					return fmt.Errorf("state %s: %w", id, err)
				}
				sent[i]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		j.requeue(order, byState, sent)
		j.logger.Error("Couldn't flush state changes", slog.Any("error", err))
		return fmt.Errorf("flush journal %s: %w", j.name, err)
	}

	j.logger.Debug("State changes flushed", slog.Int("count", len(batch)))
	return nil
}

// requeue puts the notifications that were not sent back in front of the
// pending ones.
func (j *Journal) requeue(order []uuid.UUID, byState map[uuid.UUID][]thermostate.Changed, sent []int) {
	var unsent []thermostate.Changed
	for i, id := range order {
		unsent = append(unsent, byState[id][sent[i]:]...)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(unsent, j.pending...)
}

func (j *Journal) send(ctx context.Context, c thermostate.Changed) error {
	ctx, span := tracer.Start(ctx, "journal.send", trace.WithAttributes(
		attribute.String("state.id", c.StateID.String()),
		attribute.Stringer("state.hash", c.After),
		attribute.Int64("state.version", int64(c.Version)),
	))
	defer span.End()

	msg, err := Encode(c)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := j.sink.Send(ctx, msg); err != nil {
		err := fmt.Errorf("send: %w", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Encode returns a message carrying the gob encoding of c, keyed by its state's
// identifier.
func Encode(c thermostate.Changed) (*pubsub.Message, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(c); err != nil {
		return nil, fmt.Errorf("encode gob: %w", err)
	}
	return &pubsub.Message{
		Body:     b.Bytes(),
		Metadata: map[string]string{StateIDKey: c.StateID.String()},
	}, nil
}

// Decode returns the notification carried by a message produced by Encode.
func Decode(msg *pubsub.Message) (thermostate.Changed, error) {
	var c thermostate.Changed
	if err := gob.NewDecoder(bytes.NewReader(msg.Body)).Decode(&c); err != nil {
		return thermostate.Changed{}, fmt.Errorf("decode gob: %w", err)
	}
	return c, nil
}
