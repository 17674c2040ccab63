package usecase

import (
	"context"
	"sync"

	"slawn/internal/domain/repository"
	"slawn/pkg/logger"
)

// Subscription delivers successive views of a live query until cancelled.
// Updates is closed when the subscription ends; Err then reports why, or nil
// when it was cancelled.
type Subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

func subscribe[S, T any](
	parent context.Context,
	open func(ctx context.Context) repository.SnapshotIterator[S],
	project func(ctx context.Context, items []S) (T, error),
) *Subscription[T] {
	ctx, cancel := context.WithCancel(parent)
	sub := &Subscription[T]{
		updates: make(chan T, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	iter := open(ctx)
	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer iter.Stop()

		for {
			items, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					sub.fail(err)
				}
				return
			}

			view, err := project(ctx, items)
			if err != nil {
				sub.fail(err)
				return
			}

			select {
			case sub.updates <- view:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Cancel stops the underlying listener and waits for the channel to close.
func (s *Subscription[T]) Cancel() {
	s.cancel()
	<-s.done
}

func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription[T]) fail(err error) {
	logger.Warn("Subscription ended: %v", err)
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.cancel()
}
