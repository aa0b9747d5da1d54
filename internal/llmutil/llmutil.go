// Package llmutil builds concrete llm clients from viper configuration.
package llmutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/cyilin36/chat-polisher/llm"
	openaiProvider "github.com/cyilin36/chat-polisher/providers/openai"
	uniaiProvider "github.com/cyilin36/chat-polisher/providers/uniai"
	"github.com/spf13/viper"
)

func ProviderFromViper() string {
	return normalizeProvider(viper.GetString("llm.provider"))
}

// ClientFromViper builds the llm client described by the llm.* keys.
func ClientFromViper() (llm.Client, error) {
	provider := ProviderFromViper()
	switch provider {
	case "openai_http":
		// Plain HTTP client for OpenAI-compatible endpoints.
		return openaiProvider.New(
			strings.TrimSpace(viper.GetString("llm.endpoint")),
			strings.TrimSpace(viper.GetString("llm.api_key")),
			strings.TrimSpace(viper.GetString("llm.model")),
		), nil
	case "openai", "openai_custom", "deepseek", "xai", "gemini", "azure", "anthropic", "bedrock", "cloudflare":
		return uniaiProvider.New(uniaiProvider.Config{
			Provider:            provider,
			Endpoint:            strings.TrimSpace(viper.GetString("llm.endpoint")),
			APIKey:              strings.TrimSpace(viper.GetString("llm.api_key")),
			Model:               strings.TrimSpace(viper.GetString("llm.model")),
			RequestTimeout:      requestTimeoutFromViper(),
			AzureAPIKey:         strings.TrimSpace(viper.GetString("llm.azure.api_key")),
			AzureEndpoint:       strings.TrimSpace(viper.GetString("llm.azure.endpoint")),
			AzureDeployment:     strings.TrimSpace(viper.GetString("llm.azure.deployment")),
			AwsKey:              strings.TrimSpace(viper.GetString("llm.aws.key")),
			AwsSecret:           strings.TrimSpace(viper.GetString("llm.aws.secret")),
			AwsRegion:           strings.TrimSpace(viper.GetString("llm.aws.region")),
			AwsBedrockModelArn:  strings.TrimSpace(viper.GetString("llm.aws.bedrock_model_arn")),
			CloudflareAccountID: strings.TrimSpace(viper.GetString("llm.cloudflare.account_id")),
			CloudflareAPIToken:  strings.TrimSpace(viper.GetString("llm.cloudflare.api_token")),
			CloudflareAPIBase:   strings.TrimSpace(viper.GetString("llm.endpoint")),
			Debug:               viper.GetBool("trace"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm.provider: %s", provider)
	}
}

func requestTimeoutFromViper() time.Duration {
	secs := viper.GetFloat64("llm.request_timeout_seconds")
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "openai"
	}
	return provider
}
