package portfolio

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRefreshInterval matches the original five minute portfolio poll.
const DefaultRefreshInterval = 5 * time.Minute

// Source is the session-side surface the refresher drives. Active reports
// whether a session is authenticated; Refresh re-fetches holdings without
// raising user-facing notifications.
type Source interface {
	Active() bool
	Refresh(ctx context.Context) error
}

// Refresher polls the portfolio at a fixed interval while the session is
// authenticated. Ticks that arrive while unauthenticated are skipped, not
// queued. Overlapping ticks are not deduplicated; the interval vastly
// exceeds expected call latency.
type Refresher struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher. A non-positive interval falls back to
// DefaultRefreshInterval; a nil logger falls back to slog.Default.
func NewRefresher(source Source, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{source: source, interval: interval, logger: logger}
}

// Run polls until the context is cancelled. Refresh failures are logged and
// otherwise silent; they never stop the loop.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.source.Active() {
				continue
			}
			if err := r.source.Refresh(ctx); err != nil {
				r.logger.Error("background portfolio refresh failed", "err", err)
			}
		}
	}
}
