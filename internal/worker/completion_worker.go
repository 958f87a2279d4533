package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Completer interface {
	CompleteArrived(ctx context.Context, now time.Time) (int, error)
}

// CompletionWorker periodically moves confirmed bookings of landed flights
// to Completed.
type CompletionWorker struct {
	bookings Completer
	interval time.Duration
	now      func() time.Time
	log      logrus.FieldLogger
}

func NewCompletionWorker(bookings Completer, interval time.Duration, log logrus.FieldLogger) *CompletionWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CompletionWorker{
		bookings: bookings,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Start sweeps once immediately and then on every tick until ctx is done.
func (w *CompletionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.WithField("interval", w.interval.String()).Info("completion worker started")
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("completion worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CompletionWorker) sweep(ctx context.Context) {
	completed, err := w.bookings.CompleteArrived(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.log.WithError(err).Error("complete arrived bookings")
		}
		return
	}
	if completed > 0 {
		w.log.WithField("completed", completed).Info("bookings completed")
	}
}
