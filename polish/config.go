// Package polish rewrites the text of an outgoing reply through a
// text-completion provider right before delivery, leaving non-text
// segments untouched.
package polish

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FailureMode selects what the user sees when rewriting fails.
type FailureMode string

const (
	// FailureModePassThrough keeps the original text on failure.
	FailureModePassThrough FailureMode = "pass_through"
	// FailureModeFixedError replaces the reply with a fixed message on
	// failure.
	FailureModeFixedError FailureMode = "fixed_error"
)

// DefaultPrompt is used when polish.prompt is not configured. The
// {{text}} placeholder is replaced with the merged segment text.
const DefaultPrompt = "你是一个专业的中文文本润色助手。" +
	"请在不改变原意的前提下，优化表达的通顺度、清晰度与自然度。" +
	"保持原有语气和信息完整，不要增加新事实。" +
	"只输出润色后的最终文本，不要解释。\n\n" +
	"待润色文本：\n{{text}}"

const DefaultFailureMessage = "polish failed, check logs"

const (
	defaultTimeout       = 12 * time.Second
	defaultMarkRetention = 300 * time.Second
	defaultCheckInterval = 60 * time.Second

	minTimeout       = 100 * time.Millisecond
	minMarkRetention = 10 * time.Second
	minCheckInterval = time.Second
)

// Config holds the recognized polish options. A value is resolved once
// per hook invocation and not mutated afterwards.
type Config struct {
	// Provider is the id of the provider to polish with; empty means
	// the conversation's active default.
	Provider string
	// Prompt is the rewrite instruction template. A {{text}}
	// placeholder receives the merged text; without one, the text is
	// appended after the template.
	Prompt string
	// Timeout bounds one rewrite call.
	Timeout time.Duration
	// FailureMode picks pass-through vs fixed-error behavior.
	FailureMode FailureMode
	// FailureMessage is the text sent in fixed-error mode.
	FailureMessage string
	// MarkRetention is the marker TTL.
	MarkRetention time.Duration
	// MarkCheckInterval is the background cleanup period.
	MarkCheckInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Prompt:            DefaultPrompt,
		Timeout:           defaultTimeout,
		FailureMode:       FailureModePassThrough,
		FailureMessage:    DefaultFailureMessage,
		MarkRetention:     defaultMarkRetention,
		MarkCheckInterval: defaultCheckInterval,
	}
}

// ConfigFromViper reads the polish.* keys, applying defaults and
// floors. Unknown failure modes degrade to pass-through.
func ConfigFromViper() Config {
	cfg := DefaultConfig()

	cfg.Provider = strings.TrimSpace(viper.GetString("polish.provider"))
	if prompt := strings.TrimSpace(viper.GetString("polish.prompt")); prompt != "" {
		cfg.Prompt = prompt
	}
	if msg := strings.TrimSpace(viper.GetString("polish.failure_message")); msg != "" {
		cfg.FailureMessage = msg
	}
	cfg.FailureMode = ParseFailureMode(viper.GetString("polish.failure_mode"))

	if viper.IsSet("polish.timeout_seconds") {
		cfg.Timeout = secondsDuration(viper.GetFloat64("polish.timeout_seconds"))
	}
	if viper.IsSet("polish.mark_retention_seconds") {
		cfg.MarkRetention = secondsDuration(viper.GetFloat64("polish.mark_retention_seconds"))
	}
	if viper.IsSet("polish.mark_check_interval_seconds") {
		cfg.MarkCheckInterval = secondsDuration(viper.GetFloat64("polish.mark_check_interval_seconds"))
	}

	return cfg.withFloors()
}

// ParseFailureMode maps a config string to a FailureMode, defaulting
// to pass-through.
func ParseFailureMode(s string) FailureMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FailureModeFixedError), "send_fixed_error":
		return FailureModeFixedError
	default:
		return FailureModePassThrough
	}
}

func (c Config) withFloors() Config {
	if c.Timeout < minTimeout {
		c.Timeout = minTimeout
	}
	if c.MarkRetention < minMarkRetention {
		c.MarkRetention = minMarkRetention
	}
	if c.MarkCheckInterval < minCheckInterval {
		c.MarkCheckInterval = minCheckInterval
	}
	return c
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
