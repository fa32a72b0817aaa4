package dataflow

import (
	"context"
)

// Stream is a read-only channel of messages.
type Stream[T any] <-chan T

// From creates a stream from a slice of data.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

// Map transforms the stream using fn in input order. Items for which fn
// returns an error are dropped.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(In) (Out, error), opts ...Option) Stream[Out] {
	cfg := newConfig(opts)

	out := make(chan Out, cfg.bufferSize)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				res, err := fn(msg)
				if err != nil {
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}()

	return out
}

// Collect drains the stream into a slice. It blocks until the stream is
// exhausted or ctx is cancelled.
func Collect[T any](ctx context.Context, input Stream[T]) ([]T, error) {
	var out []T
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case msg, ok := <-input:
			if !ok {
				return out, nil
			}
			out = append(out, msg)
		}
	}
}
