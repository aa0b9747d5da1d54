// Package providers holds the set of resolvable text-completion
// capabilities: clients registered under a stable id, plus the
// capability a conversation is currently using.
package providers

import (
	"strings"
	"sync"

	"github.com/cyilin36/chat-polisher/llm"
)

// Registry maps provider ids and conversation origins to clients. Safe
// for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]llm.Client
	using map[string]llm.Client
	def   llm.Client
}

func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[string]llm.Client),
		using: make(map[string]llm.Client),
	}
}

// Register adds a client under the given id, replacing any previous
// registration. Blank ids are ignored.
func (r *Registry) Register(id string, c llm.Client) {
	id = strings.TrimSpace(id)
	if id == "" || c == nil {
		return
	}
	r.mu.Lock()
	r.byID[id] = c
	r.mu.Unlock()
}

// ByID looks up a client by id.
func (r *Registry) ByID(id string) (llm.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[strings.TrimSpace(id)]
	return c, ok && c != nil
}

// SetUsing records the capability a conversation origin is currently
// using.
func (r *Registry) SetUsing(origin string, c llm.Client) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return
	}
	r.mu.Lock()
	if c == nil {
		delete(r.using, origin)
	} else {
		r.using[origin] = c
	}
	r.mu.Unlock()
}

// SetDefault records the process-wide default capability, used when a
// conversation has no per-origin entry.
func (r *Registry) SetDefault(c llm.Client) {
	r.mu.Lock()
	r.def = c
	r.mu.Unlock()
}

// Using returns the capability active for the given conversation
// origin, falling back to the process default. The second return is
// false when neither is set.
func (r *Registry) Using(origin string) (llm.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.using[strings.TrimSpace(origin)]; ok && c != nil {
		return c, true
	}
	if r.def != nil {
		return r.def, true
	}
	return nil, false
}
