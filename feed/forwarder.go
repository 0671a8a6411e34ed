package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielorbach/go-component"
)

// shutdownFlushTimeout bounds the last flush of a forwarder.
const shutdownFlushTimeout = 10 * time.Second

type forwarder struct {
	journal  *Journal
	interval time.Duration
}

// NewForwarder returns a [component.Procedure] that flushes the given journal
// periodically, every interval, and once more when the component shuts down,
// whether it is stopped or its context is cancelled.
//
// A failed flush is logged and retried on the next tick; the journal keeps the
// notifications it could not send.
func NewForwarder(journal *Journal, interval time.Duration) component.Procedure {
	return forwarder{
		journal:  journal,
		interval: interval,
	}
}

func (f forwarder) Exec(l *component.L) {
	logger := component.Logger(l.Context()).With(slog.String("journal", f.journal.name))
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	// the grace context ends on Stop and on cancellation alike
	for l.GraceContext().Err() == nil {
		select {
		case <-l.GraceContext().Done():
		case <-ticker.C:
			if err := f.journal.Flush(l.GraceContext()); err != nil {
				logger.Warn("Couldn't flush state changes, retrying on the next tick",
					slog.Int("pending", f.journal.Pending()),
					slog.Any("error", err),
				)
			}
		}
	}

	// both lifecycle contexts may be cancelled by now
	ctx, cancel := context.WithTimeout(context.WithoutCancel(l.Context()), shutdownFlushTimeout)
	defer cancel()
	if err := f.journal.Flush(ctx); err != nil {
		logger.Error("Couldn't flush state changes on shutdown",
			slog.Int("pending", f.journal.Pending()),
			slog.Any("error", err),
		)
	}
}
