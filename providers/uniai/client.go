// Package uniai adapts the uniai multi-backend SDK to the llm.Client
// interface. Chat-only: the polisher never issues tool calls.
package uniai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyilin36/chat-polisher/llm"
	uniaiapi "github.com/quailyquaily/uniai"
)

type Config struct {
	Provider string
	Endpoint string
	APIKey   string
	Model    string

	RequestTimeout time.Duration

	AzureAPIKey         string
	AzureEndpoint       string
	AzureDeployment     string
	AwsKey              string
	AwsSecret           string
	AwsRegion           string
	AwsBedrockModelArn  string
	CloudflareAccountID string
	CloudflareAPIToken  string
	CloudflareAPIBase   string

	Debug bool
}

type Client struct {
	provider       string
	model          string
	requestTimeout time.Duration
	client         *uniaiapi.Client
}

func New(cfg Config) *Client {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	uCfg := uniaiapi.Config{
		Provider:            provider,
		OpenAIAPIKey:        strings.TrimSpace(cfg.APIKey),
		OpenAIAPIBase:       normalizeOpenAIBase(cfg.Endpoint),
		OpenAIModel:         strings.TrimSpace(cfg.Model),
		AzureOpenAIAPIKey:   strings.TrimSpace(firstNonEmpty(cfg.AzureAPIKey, cfg.APIKey)),
		AzureOpenAIEndpoint: strings.TrimSpace(firstNonEmpty(cfg.AzureEndpoint, cfg.Endpoint)),
		AzureOpenAIModel:    strings.TrimSpace(firstNonEmpty(cfg.AzureDeployment, cfg.Model)),
		AnthropicAPIKey:     strings.TrimSpace(cfg.APIKey),
		AnthropicModel:      strings.TrimSpace(cfg.Model),
		AwsKey:              strings.TrimSpace(cfg.AwsKey),
		AwsSecret:           strings.TrimSpace(cfg.AwsSecret),
		AwsRegion:           strings.TrimSpace(cfg.AwsRegion),
		AwsBedrockModelArn:  strings.TrimSpace(cfg.AwsBedrockModelArn),
		CloudflareAccountID: strings.TrimSpace(cfg.CloudflareAccountID),
		CloudflareAPIToken:  strings.TrimSpace(firstNonEmpty(cfg.CloudflareAPIToken, cfg.APIKey)),
		CloudflareAPIBase:   strings.TrimSpace(cfg.CloudflareAPIBase),
		GeminiAPIKey:        strings.TrimSpace(cfg.APIKey),
		GeminiAPIBase:       strings.TrimSpace(cfg.Endpoint),

		Debug: cfg.Debug,
	}

	return &Client{
		provider:       provider,
		model:          strings.TrimSpace(cfg.Model),
		requestTimeout: cfg.RequestTimeout,
		client:         uniaiapi.New(uCfg),
	}
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	resp, err := c.client.Chat(ctx, c.buildChatOptions(req)...)
	if err != nil {
		return llm.Result{}, err
	}
	if resp == nil {
		return llm.Result{}, fmt.Errorf("uniai: empty response")
	}

	return llm.Result{
		Text: resp.Text,
		Usage: llm.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}, nil
}

func (c *Client) buildChatOptions(req llm.Request) []uniaiapi.ChatOption {
	msgs := make([]uniaiapi.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = uniaiapi.Message{Role: m.Role, Content: m.Content}
	}

	opts := []uniaiapi.ChatOption{uniaiapi.WithReplaceMessages(msgs...)}
	if c.provider != "" {
		opts = append(opts, uniaiapi.WithProvider(c.provider))
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	if model != "" {
		opts = append(opts, uniaiapi.WithModel(model))
	}

	appliedTemperature := false
	if req.Parameters != nil {
		if v, ok := floatFromAny(req.Parameters["temperature"]); ok {
			opts = append(opts, uniaiapi.WithTemperature(v))
			appliedTemperature = true
		}
		if v, ok := floatFromAny(req.Parameters["top_p"]); ok {
			opts = append(opts, uniaiapi.WithTopP(v))
		}
		if v, ok := intFromAny(req.Parameters["max_tokens"]); ok && v > 0 {
			opts = append(opts, uniaiapi.WithMaxTokens(v))
		}
	}
	if !appliedTemperature {
		opts = append(opts, uniaiapi.WithTemperature(0))
	}

	return opts
}

func normalizeOpenAIBase(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(endpoint, "/v1") || strings.Contains(endpoint, "/v1/") {
		return endpoint
	}
	return endpoint + "/v1"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func floatFromAny(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if val, err := v.Float64(); err == nil {
			return val, true
		}
	case string:
		if val, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return val, true
		}
	}
	return 0, false
}

func intFromAny(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		if val, err := v.Int64(); err == nil {
			return int(val), true
		}
	case string:
		if val, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return val, true
		}
	}
	return 0, false
}
