// Package llm defines the text-completion capability boundary. A
// provider is anything that can run one chat completion; the polisher
// never depends on a concrete backend.
package llm

import (
	"context"
	"strings"
	"time"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Result struct {
	Text     string
	Usage    Usage
	Duration time.Duration
}

type Request struct {
	Model      string
	Messages   []Message
	Parameters map[string]any
}

// Client is one chat-completion capability. Implementations perform no
// implicit retry; a single call maps to a single backend request.
type Client interface {
	Chat(ctx context.Context, req Request) (Result, error)
}

// TextChat runs a single-turn completion: optional system prompt, the
// given prior turns, then the user prompt. It returns the completion
// text as-is; callers decide how to treat blank output.
func TextChat(ctx context.Context, c Client, prompt string, history []Message, systemPrompt string) (string, error) {
	msgs := make([]Message, 0, len(history)+2)
	if strings.TrimSpace(systemPrompt) != "" {
		msgs = append(msgs, Message{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: "user", Content: prompt})

	res, err := c.Chat(ctx, Request{Messages: msgs})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
