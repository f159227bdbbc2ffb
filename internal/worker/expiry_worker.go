package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/repository"
)

// ExpiryWorker periodically deactivates attendance codes whose expiry has
// passed. Expiry is also enforced lazily on every lookup, so the sweep only
// keeps the table tidy for reporting; it is optional and off by default.
type ExpiryWorker struct {
	codes    *repository.CodeRepository
	interval time.Duration
	log      zerolog.Logger
}

func NewExpiryWorker(codes *repository.CodeRepository, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		codes:    codes,
		interval: interval,
		log:      log.With().Str("component", "expiry_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("ExpiryWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. ExpiryWorker stopping")
			return

		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := w.codes.DeactivateExpired(sweepCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("Expiry sweep failed")
		return
	}
	if n > 0 {
		w.log.Info().Int64("deactivated", n).Msg("Expired codes deactivated")
	}
}
