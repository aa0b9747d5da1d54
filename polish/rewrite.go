package polish

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cyilin36/chat-polisher/chain"
	"github.com/cyilin36/chat-polisher/llm"
)

// rewriteSystemPrompt pins the backend to bare output; any explanation
// would end up in the user's message.
const rewriteSystemPrompt = "你是一个只输出最终润色文本的助手。"

// promptPlaceholder marks where the merged text goes in the template.
const promptPlaceholder = "{{text}}"

// appendLabel separates template and text when the template carries no
// placeholder.
const appendLabel = "待润色文本："

// Rewriter rewrites the text runs of a message chain through one
// provider under the configured failure policy.
type Rewriter struct {
	cfg    Config
	logger *slog.Logger
}

func NewRewriter(cfg Config, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{cfg: cfg, logger: logger}
}

// Rewrite walks the chain once, merging each contiguous run of Text
// segments, rewriting the merged text, and reassembling the chain with
// non-text segments in their original order.
//
// ok=false means the whole rewrite was aborted (fixed-error mode) and
// the caller must substitute into the original, unmodified chain. A
// non-nil error is returned only when ctx itself was cancelled; plain
// rewrite failures never surface as errors.
func (r *Rewriter) Rewrite(ctx context.Context, client llm.Client, ch chain.Chain) (chain.Chain, bool, error) {
	if !ch.HasText() {
		return ch, true, nil
	}

	out := make(chain.Chain, 0, len(ch))
	var run []chain.Text

	flush := func() (bool, error) {
		if len(run) == 0 {
			return true, nil
		}
		parts := make([]string, len(run))
		for i, t := range run {
			parts[i] = t.Content
		}
		merged := strings.TrimSpace(strings.Join(parts, "\n"))
		if merged == "" {
			// Nothing worth rewriting; keep the originals.
			for _, t := range run {
				out = append(out, t)
			}
			run = run[:0]
			return true, nil
		}

		polished, err := r.rewriteText(ctx, client, merged)
		if err != nil {
			return false, err
		}
		if polished == "" {
			if r.cfg.FailureMode == FailureModeFixedError {
				return false, nil
			}
			for _, t := range run {
				out = append(out, t)
			}
			run = run[:0]
			return true, nil
		}

		out = append(out, chain.Text{Content: polished})
		run = run[:0]
		return true, nil
	}

	for _, seg := range ch {
		switch s := seg.(type) {
		case chain.Text:
			run = append(run, s)
		case chain.Opaque:
			if ok, err := flush(); err != nil || !ok {
				return nil, false, err
			}
			out = append(out, s)
		default:
			// Unknown segment kinds behave like opaque payloads.
			if ok, err := flush(); err != nil || !ok {
				return nil, false, err
			}
			out = append(out, seg)
		}
	}
	if ok, err := flush(); err != nil || !ok {
		return nil, false, err
	}

	return out, true, nil
}

// rewriteText runs one bounded rewrite call. It returns "" for every
// failure (timeout, backend error, blank completion) after logging;
// the only error it returns is cancellation of the caller's context.
func (r *Rewriter) rewriteText(ctx context.Context, client llm.Client, text string) (string, error) {
	prompt := BuildPrompt(r.cfg.Prompt, text)

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	completion, err := llm.TextChat(callCtx, client, prompt, nil, rewriteSystemPrompt)
	if err != nil {
		// The caller going away is a shutdown signal, not a rewrite
		// failure.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("polish_timeout", "timeout", r.cfg.Timeout.String())
			return "", nil
		}
		r.logger.Error("polish_call_failed", "error", err.Error())
		return "", nil
	}

	polished := strings.TrimSpace(completion)
	if polished == "" {
		r.logger.Warn("polish_empty_completion")
		return "", nil
	}
	return polished, nil
}

// BuildPrompt fills the {{text}} placeholder, or appends the text with
// a label when the template has no placeholder.
func BuildPrompt(template, text string) string {
	tpl := strings.TrimSpace(template)
	if tpl == "" {
		tpl = DefaultPrompt
	}
	if strings.Contains(tpl, promptPlaceholder) {
		return strings.ReplaceAll(tpl, promptPlaceholder, text)
	}
	return tpl + "\n\n" + appendLabel + "\n" + text
}

// SubstituteFailure builds the chain sent in fixed-error mode: the
// fixed message replaces the first Text position of the original
// chain, all other Text segments are dropped, and non-text segments
// keep their order. With no Text at all, the message is prepended.
func SubstituteFailure(ch chain.Chain, message string) chain.Chain {
	firstText := -1
	rest := make(chain.Chain, 0, len(ch))
	for idx, seg := range ch {
		if _, ok := seg.(chain.Text); ok {
			if firstText < 0 {
				firstText = idx
			}
			continue
		}
		rest = append(rest, seg)
	}

	fixed := chain.Text{Content: message}
	if firstText < 0 {
		return append(chain.Chain{fixed}, rest...)
	}
	pos := firstText
	if pos > len(rest) {
		pos = len(rest)
	}
	out := make(chain.Chain, 0, len(rest)+1)
	out = append(out, rest[:pos]...)
	out = append(out, fixed)
	out = append(out, rest[pos:]...)
	return out
}
