package service

import (
	"context"
	"errors"
	"github.com/cenkalti/backoff/v4"
	"github.com/rookgm/tiffin/internal/models"
	"time"
)

// default number of retries of conflicting billing transaction
const defaultConflictRetries = 3

func newConflictBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	b.Reset()
	return b
}

// retryOnConflict runs op until it succeeds, fails with an error other than
// models.ErrConcurrencyConflict or retries are exhausted
func retryOnConflict(ctx context.Context, retries uint64, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(newConflictBackOff(), retries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !errors.Is(err, models.ErrConcurrencyConflict) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
