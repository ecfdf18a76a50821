package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryConfig bounds the retry loop around one logical LLM call
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first
	Interval    time.Duration // sleep between attempts
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Interval:    time.Second,
	}
}

// retryablePatterns are error substrings that indicate a transient failure.
// Matched case-insensitively; providers do not expose typed errors for these.
var retryablePatterns = []string{
	"rate limit", "quota", "429",
	"500", "502", "503", "504", "unavailable", "overloaded",
	"connection reset", "connection refused", "timeout", "temporary", "eof",
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RetryingProvider wraps a provider with a bounded retry loop.
// Non-retryable errors and context cancellation fail immediately.
type RetryingProvider struct {
	inner  LLMProvider
	config RetryConfig
}

var _ LLMProvider = &RetryingProvider{}

func NewRetryingProvider(inner LLMProvider, config RetryConfig) *RetryingProvider {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &RetryingProvider{inner: inner, config: config}
}

func (r *RetryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Chat(ctx, history, options...)
	})
}

func (r *RetryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Generate(ctx, prompt, options...)
	})
}

func (r *RetryingProvider) do(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		reply, err := call()
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable(err) {
			return "", err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.config.Interval):
		}
	}

	return "", fmt.Errorf("llm call failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}
