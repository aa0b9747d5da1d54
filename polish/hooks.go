package polish

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cyilin36/chat-polisher/internal/marker"
	"github.com/cyilin36/chat-polisher/llm"
	"github.com/cyilin36/chat-polisher/pipeline"
)

// Source resolves text-completion capabilities. Satisfied by
// providers.Registry.
type Source interface {
	// ByID looks a provider up by its configured id.
	ByID(id string) (llm.Client, bool)
	// Using returns the capability active for a conversation origin.
	Using(origin string) (llm.Client, bool)
}

// Hooks are the two entry points the host pipeline dispatches into.
// Both are safe for concurrent invocation across in-flight messages.
type Hooks struct {
	store     *marker.Store
	providers Source
	config    func() Config
	logger    *slog.Logger
}

// NewHooks wires the hook entry points. config is resolved once per
// invocation so host-side configuration changes apply to the next
// message, not a running one.
func NewHooks(store *marker.Store, providers Source, config func() Config, logger *slog.Logger) *Hooks {
	if config == nil {
		config = DefaultConfig
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hooks{store: store, providers: providers, config: config, logger: logger}
}

// OnGenerationStart fires when a default AI-completion flow begins. It
// marks the event so OnBeforeSend can tell AI replies from command
// replies.
func (h *Hooks) OnGenerationStart(ctx context.Context, ev *pipeline.Event) {
	if ev == nil {
		return
	}
	h.store.Mark(ev.MarkerKey())
}

// OnBeforeSend fires right before an outgoing reply is transmitted.
// For marked AI replies it rewrites the chain's text segments through
// the resolved provider, honoring the configured failure mode. The
// returned error is non-nil only when ctx was cancelled mid-rewrite.
func (h *Hooks) OnBeforeSend(ctx context.Context, ev *pipeline.Event) error {
	if ev == nil {
		return nil
	}
	if RewriteInProgress(ctx) {
		return nil
	}
	if !h.store.IsValid(ev.MarkerKey()) {
		return nil
	}

	result := ev.Result()
	if result == nil || len(result.Chain) == 0 {
		return nil
	}

	cfg := h.config()
	client := h.resolveProvider(ev.Origin(), cfg.Provider)
	if client == nil {
		h.logger.Warn("polish_no_provider", "origin", ev.Origin())
		return nil
	}

	rewriter := NewRewriter(cfg, h.logger)
	newChain, ok, err := rewriter.Rewrite(WithRewriteInProgress(ctx), client, result.Chain)
	if err != nil {
		return err
	}
	if !ok {
		if cfg.FailureMode == FailureModeFixedError {
			result.Chain = SubstituteFailure(result.Chain, cfg.FailureMessage)
		}
		return nil
	}
	if newChain != nil {
		result.Chain = newChain
	}
	return nil
}

func (h *Hooks) resolveProvider(origin, configured string) llm.Client {
	if id := strings.TrimSpace(configured); id != "" {
		if c, ok := h.providers.ByID(id); ok {
			return c
		}
		h.logger.Warn("polish_provider_not_found", "provider_id", id)
	}
	if c, ok := h.providers.Using(origin); ok {
		return c
	}
	return nil
}
