package marker

import (
	"context"
	"log/slog"
	"time"
)

// RunCleanup sweeps expired entries every interval until ctx is
// cancelled. A panicking sweep is logged and the loop keeps running:
// a dead cleanup loop would let the store grow without bound, which is
// worse than one bad pass.
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupPass(logger)
		}
	}
}

func (s *Store) cleanupPass(logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("marker_cleanup_panic", "panic", r)
		}
	}()
	if removed := s.CleanupExpired(); removed > 0 {
		logger.Debug("marker_cleanup", "removed", removed, "remaining", s.Len())
	}
}
