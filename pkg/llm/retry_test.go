package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	calls   int
	replies []string
	errs    []error
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	return s.replies[i], s.errs[i]
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, nil, options...)
}

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	inner := &scriptedProvider{
		replies: []string{"", "namaste"},
		errs:    []error{errors.New("503 service unavailable"), nil},
	}
	p := NewRetryingProvider(inner, RetryConfig{MaxAttempts: 3, Interval: time.Millisecond})

	reply, err := p.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "namaste" {
		t.Errorf("reply = %q, want %q", reply, "namaste")
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	inner := &scriptedProvider{
		replies: []string{""},
		errs:    []error{errors.New("invalid model name")},
	}
	p := NewRetryingProvider(inner, RetryConfig{MaxAttempts: 3, Interval: time.Millisecond})

	if _, err := p.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-transient errors)", inner.calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	inner := &scriptedProvider{
		replies: []string{""},
		errs:    []error{errors.New("connection reset by peer")},
	}
	p := NewRetryingProvider(inner, RetryConfig{MaxAttempts: 3, Interval: time.Millisecond})

	_, err := p.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &scriptedProvider{
		replies: []string{""},
		errs:    []error{errors.New("timeout")},
	}
	p := NewRetryingProvider(inner, RetryConfig{MaxAttempts: 5, Interval: time.Second})

	_, err := p.Generate(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}
