package repository

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"

	oerrors "github.com/opmodel/release/internal/errors"
)

// DefaultRetryDelay is the initial delay between attempts.
const DefaultRetryDelay = 500 * time.Millisecond

// Retrying retries failed uploads and deletions of the wrapped repository
// with exponential backoff. Errors the user has to fix are not retried.
type Retrying struct {
	Repository
	attempts uint
	delay    time.Duration
	log      *log.Logger
}

// RetryOption configures Retrying.
type RetryOption func(*Retrying)

// WithDelay sets the initial delay between attempts.
func WithDelay(d time.Duration) RetryOption {
	return func(r *Retrying) { r.delay = d }
}

// WithRetryLogger logs each failed attempt.
func WithRetryLogger(l *log.Logger) RetryOption {
	return func(r *Retrying) { r.log = l }
}

// WithRetries wraps repo so that Put and Delete make up to attempts tries.
// Zero attempts means one.
func WithRetries(repo Repository, attempts uint, opts ...RetryOption) *Retrying {
	if attempts == 0 {
		attempts = 1
	}
	r := &Retrying{Repository: repo, attempts: attempts, delay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put implements Repository.
func (r *Retrying) Put(ctx context.Context, key string, body io.ReadSeeker) error {
	return r.do(ctx, "upload", key, func() error {
		return r.Repository.Put(ctx, key, body)
	})
}

// Delete implements Repository.
func (r *Retrying) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func() error {
		return r.Repository.Delete(ctx, key)
	})
}

func (r *Retrying) do(ctx context.Context, op, key string, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			if r.log != nil {
				r.log.Warn("retrying "+op, "key", key, "attempt", attempt+1, "of", r.attempts, "err", err)
			}
		}),
	)
}

// retryable rejects cancellation and errors that another attempt cannot fix.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, oerrors.ErrArgument), errors.Is(err, oerrors.ErrUser), errors.Is(err, oerrors.ErrFormat):
		return false
	default:
		return true
	}
}
