package providers

import (
	"context"
	"testing"

	"github.com/cyilin36/chat-polisher/llm"
)

type stubClient struct{ name string }

func (s *stubClient) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	return llm.Result{Text: s.name}, nil
}

func TestRegisterAndByID(t *testing.T) {
	r := NewRegistry()
	a := &stubClient{name: "a"}
	r.Register("polish", a)

	got, ok := r.ByID("polish")
	if !ok || got != a {
		t.Fatalf("ByID(polish) = %v, %v, want registered client", got, ok)
	}
	if _, ok := r.ByID("missing"); ok {
		t.Fatalf("ByID(missing) reported ok")
	}
}

func TestRegisterIgnoresBlankID(t *testing.T) {
	r := NewRegistry()
	r.Register("  ", &stubClient{})
	if _, ok := r.ByID(""); ok {
		t.Fatalf("blank id was registered")
	}
}

func TestUsingPrefersOriginOverDefault(t *testing.T) {
	r := NewRegistry()
	def := &stubClient{name: "default"}
	forOrigin := &stubClient{name: "origin"}
	r.SetDefault(def)
	r.SetUsing("tg:chat:42", forOrigin)

	if got, ok := r.Using("tg:chat:42"); !ok || got != forOrigin {
		t.Fatalf("Using(known origin) = %v, %v, want per-origin client", got, ok)
	}
	if got, ok := r.Using("tg:chat:99"); !ok || got != def {
		t.Fatalf("Using(unknown origin) = %v, %v, want default", got, ok)
	}
}

func TestUsingAbsent(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Using("anywhere"); ok {
		t.Fatalf("Using() on empty registry reported ok")
	}
}

func TestSetUsingNilClears(t *testing.T) {
	r := NewRegistry()
	r.SetUsing("o", &stubClient{})
	r.SetUsing("o", nil)
	if _, ok := r.Using("o"); ok {
		t.Fatalf("cleared origin still resolves")
	}
}
