package concurrent

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs the action function for each element of the sequence in a separate goroutine.
// It waits for all goroutines to finish. If action returns an error, it returns the first error encountered.
func Concurrent[T any](seq iter.Seq[T], action func(T) error) error {
	errGroup := errgroup.Group{}
	for value := range seq {
		errGroup.Go(func() error {
			return action(value)
		})
	}
	return errGroup.Wait()
}

// Throttle runs action for each element with at most limit goroutines at a time.
// It stops launching new work once ctx is done or an action has failed, and returns the first error.
// A limit below 1 means no limit.
func Throttle[T any](ctx context.Context, seq iter.Seq[T], limit int, action func(context.Context, T) error) error {
	errGroup, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}
	for value := range seq {
		if groupCtx.Err() != nil {
			break
		}
		errGroup.Go(func() error {
			return action(groupCtx, value)
		})
	}
	if err := errGroup.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
