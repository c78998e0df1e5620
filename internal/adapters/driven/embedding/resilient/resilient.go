// Package resilient wraps an embedding service with rate limiting and bounded retries.
// It is the single place where provider call pacing and retry policy live.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 5
	DefaultMaxAttempts       = 3
	DefaultMinBackoff        = 2 * time.Second
	DefaultMaxBackoff        = 10 * time.Second
)

// Config holds rate limit and retry settings.
type Config struct {
	// RequestsPerSecond is the sustained call rate to the provider.
	RequestsPerSecond float64

	// Burst is the number of calls allowed above the sustained rate.
	Burst int

	// MaxAttempts bounds calls per operation, including the first.
	MaxAttempts int

	// MinBackoff is the wait after the first failure. It doubles per attempt.
	MinBackoff time.Duration

	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration
}

// EmbeddingService decorates another EmbeddingService.
type EmbeddingService struct {
	inner      driven.EmbeddingService
	limiter    *rate.Limiter
	attempts   int
	minBackoff time.Duration
	maxBackoff time.Duration
}

// New wraps inner. Zero config fields take the defaults.
func New(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = DefaultMinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = max(DefaultMaxBackoff, cfg.MinBackoff)
	}

	return &EmbeddingService{
		inner:      inner,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		attempts:   cfg.MaxAttempts,
		minBackoff: cfg.MinBackoff,
		maxBackoff: cfg.MaxBackoff,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := s.do(ctx, "embed", func(ctx context.Context) error {
		var err error
		vector, err = s.inner.Embed(ctx, text)
		return err
	})
	return vector, err
}

// EmbedBatch generates embeddings for multiple texts. The batch is retried as a unit.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := s.do(ctx, "embed batch", func(ctx context.Context) error {
		var err error
		vectors, err = s.inner.EmbedBatch(ctx, texts)
		return err
	})
	return vectors, err
}

// do runs call under the rate limit, retrying retryable failures with exponential backoff.
func (s *EmbeddingService) do(ctx context.Context, op string, call func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit wait: %w", op, err)
		}

		lastErr = call(ctx)
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) || attempt == s.attempts {
			break
		}

		delay := s.backoff(attempt)
		logger.Warn("%s failed (attempt %d/%d), retrying in %s: %v", op, attempt, s.attempts, delay, lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}
	return lastErr
}

// backoff returns the wait after the given failed attempt: min, 2*min, 4*min, ... capped at max.
func (s *EmbeddingService) backoff(attempt int) time.Duration {
	delay := s.minBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.maxBackoff {
			return s.maxBackoff
		}
	}
	return delay
}

// Retryable reports whether an embedding failure is worth retrying.
// Provider status errors decide for themselves; cancellation never retries;
// transport and decoding failures do.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *embedding.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped provider once, without retries.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped provider.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
