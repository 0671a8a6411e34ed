package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielorbach/go-component"
	"gocloud.dev/pubsub"

	"github.com/go-thermo/thermostate"
	"github.com/go-thermo/thermostate/recipe"
)

// Owner serialises access to a single state shared between goroutines, such as
// a component's procedures and the handlers of remote recipes.
type Owner struct {
	mu    sync.Mutex
	state *thermostate.State
}

// NewOwner returns an Owner of s. Once owned, s must only be accessed through
// the Owner.
func NewOwner(s *thermostate.State) *Owner {
	return &Owner{state: s}
}

// Apply applies m to the owned state while no other goroutine accesses it.
func (o *Owner) Apply(m thermostate.Mutation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return m(o.state)
}

// Read calls fn with the owned state while no other goroutine accesses it. fn
// must not retain the state.
func (o *Owner) Read(fn func(s *thermostate.State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.state)
}

// Serve returns a component.Proc that receives recipes (see SendRecipe) from
// source and replays each of them onto the owned state.
//
// Rejected recipes are logged and skipped: a rejection is the sender's mistake
// and leaves the state as the failing step found it. A message that does not
// hold a recipe stops the procedure.
func (o *Owner) Serve(source *pubsub.Subscription) component.Proc {
	return func(l *component.L) {
		logger := component.Logger(l.Context())
		for l.Continue() {
			msg, err := source.Receive(l.Context())
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					// we're shutting down
					return
				}
				l.Fatal(fmt.Errorf("receive: %w", err))
			}
			// always ack, even if we fail to decode.
			// otherwise, we might get stuck processing
			// the same failed message
			msg.Ack()

			steps, err := recipe.Decode(msg.Body)
			if err != nil {
				l.Fatal(fmt.Errorf("decode: %w", err))
			}
			if err := o.Apply(recipe.Replay(steps)); err != nil {
				logger.Warn("Recipe rejected",
					slog.String("msg-id", msg.LoggableID),
					slog.Int("steps", len(steps)),
					slog.Any("error", err),
				)
			}
		}
	}
}

// SendRecipe encodes steps and sends them to topic, for an Owner serving a
// subscription of that topic to replay.
func SendRecipe(ctx context.Context, topic *pubsub.Topic, steps []recipe.Step) error {
	data, err := recipe.Encode(steps)
	if err != nil {
		return err
	}
	if err := topic.Send(ctx, &pubsub.Message{Body: data}); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
