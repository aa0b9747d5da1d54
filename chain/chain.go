// Package chain models one outgoing reply as an ordered sequence of
// message segments. Text segments carry natural-language content that
// the polisher may rewrite; Opaque segments (images, mentions, files)
// are carried through untouched and keep their relative order.
package chain

// Segment is one element of a message chain. The set of implementations
// is closed: Text and Opaque.
type Segment interface {
	segment()
}

// Text is a natural-language segment.
type Text struct {
	Content string
}

// Opaque is any non-text segment. The payload is owned by the host
// pipeline and never inspected here.
type Opaque struct {
	Payload any
}

func (Text) segment()   {}
func (Opaque) segment() {}

// Chain is one outgoing reply. It is owned by a single in-flight
// operation and never shared across goroutines.
type Chain []Segment

// HasText reports whether the chain contains at least one Text segment.
func (c Chain) HasText() bool {
	for _, seg := range c {
		if _, ok := seg.(Text); ok {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the chain. Segment values are copied;
// Opaque payloads are shared.
func (c Chain) Clone() Chain {
	if c == nil {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
