package polish

import "context"

type rewriteFlagKey struct{}

// WithRewriteInProgress returns a context carrying the reentrancy
// flag. Any dispatch reaching OnBeforeSend through this context is the
// rewriter's own traffic and is left alone.
func WithRewriteInProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, rewriteFlagKey{}, true)
}

// RewriteInProgress reports whether ctx is inside a rewrite call. The
// flag rides the context, so it is scoped to one logical flow and
// needs no explicit clearing: it never leaks into sibling flows.
func RewriteInProgress(ctx context.Context) bool {
	v, _ := ctx.Value(rewriteFlagKey{}).(bool)
	return v
}
