package polish

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cyilin36/chat-polisher/internal/marker"
)

// Service owns the marker store and its background cleanup worker. The
// worker is started once at initialization and stopped once at
// teardown; the hooks never have to check whether it is running.
type Service struct {
	hooks  *Hooks
	store  *marker.Store
	config func() Config
	logger *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewService builds the middleware. The marker TTL is taken from the
// config resolved at construction time.
func NewService(providers Source, config func() Config, logger *slog.Logger) *Service {
	if config == nil {
		config = DefaultConfig
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := config()
	store := marker.NewStore(cfg.MarkRetention)
	return &Service{
		hooks:  NewHooks(store, providers, config, logger),
		store:  store,
		config: config,
		logger: logger,
	}
}

// Hooks returns the entry points to register with the host pipeline.
func (s *Service) Hooks() *Hooks { return s.hooks }

// Store exposes the marker store, mainly for tests and diagnostics.
func (s *Service) Store() *marker.Store { return s.store }

// Start launches the background cleanup worker. Calling Start on a
// running service is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	interval := s.config().MarkCheckInterval
	go func() {
		defer close(done)
		s.store.RunCleanup(ctx, interval, s.logger)
	}()
	s.cancel = cancel
	s.done = done
	s.started = true
	s.logger.Debug("polish_cleanup_started", "interval", interval.String())
}

// Close cancels the cleanup worker, waits for it to exit, and clears
// the marker store. Safe to call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cancel()
	<-s.done
	s.store.Clear()
	s.cancel = nil
	s.done = nil
	s.started = false
	s.logger.Debug("polish_cleanup_stopped")
}
