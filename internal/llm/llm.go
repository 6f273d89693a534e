// File path: internal/llm/llm.go
package llm

import (
	"errors"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// ErrUnavailable is the permanent missing-credential condition surfaced by
// providers.
var ErrUnavailable = providers.ErrUnavailable

// NewProvider selects the AI provider from the environment. Without an
// OPENAI_API_KEY the returned provider reports itself unavailable and the
// engine degrades to structured-only scoring.
func NewProvider() Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		logger.Warn("llm: OPENAI_API_KEY not set; semantic scoring and generated explanations disabled")
		return providers.NewUnavailableProvider()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		} else {
			logger.Info("llm: configuring OpenAI client with custom HTTP timeout", "timeout", timeout)
			opts = append(opts, option.WithRequestTimeout(timeout))
		}
	}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	} else {
		logger.Debug("llm: using default OpenAI endpoint")
	}
	client := openai.NewClient(opts...)
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(&client)
}

// IsRateLimited reports whether the error is a transient quota or rate-limit
// rejection from the provider, as opposed to the permanent ErrUnavailable.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == 429
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota")
}
