// Package reactive binds a read of the IT Portal API to the session's access
// token, so that the read is issued again every time the token changes. A
// read that failed with a 401 is thereby repaired without any retry logic of
// its own: the refresh the 401 triggered changes the token, and the change
// triggers a fresh read.
package reactive

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrClosed is returned by Next once a Query has been closed or its context
// is done.
var ErrClosed = errors.New("query is closed")

// TokenSource publishes every change of an access token. auth.SessionStore
// satisfies it.
type TokenSource interface {
	WatchAccessToken() (<-chan string, func())
}

// Query is a read bound to a TokenSource. Fetches of the same Query never
// overlap. Token changes that arrive while a fetch is running are coalesced
// into a single further fetch.
type Query[T any] struct {
	fetch   func(context.Context) (T, error)
	ctx     context.Context
	cancel  context.CancelFunc
	trigger chan struct{}
	done    chan struct{}

	mu        sync.Mutex
	value     T
	err       error
	fetches   int
	consumed  int
	settledCh chan struct{}
}

// Bind issues fetch once right away and again every time source publishes a
// new token, until ctx is done or Close is called.
func Bind[T any](
	ctx context.Context,
	source TokenSource,
	fetch func(context.Context) (T, error),
) *Query[T] {
	ctx, cancel := context.WithCancel(ctx)
	q := &Query[T]{
		fetch:     fetch,
		ctx:       ctx,
		cancel:    cancel,
		trigger:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		settledCh: make(chan struct{}),
	}
	tokens, stop := source.WatchAccessToken()
	q.trigger <- struct{}{}
	go q.run(tokens, stop)
	return q
}

func (q *Query[T]) run(tokens <-chan string, stop func()) {
	defer close(q.done)
	defer stop()
	for {
		select {
		case <-q.ctx.Done():
			return
		case _, ok := <-tokens:
			if !ok {
				tokens = nil
				continue
			}
			q.Refetch()
		case <-q.trigger:
			q.runFetch()
		}
	}
}

func (q *Query[T]) runFetch() {
	value, err := q.fetch(q.ctx)
	if err != nil {
		glog.V(1).Infof("bound fetch failed: %s", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.value = value
	q.err = err
	q.fetches++
	close(q.settledCh)
	q.settledCh = make(chan struct{})
}

// Refetch schedules another fetch. A fetch that is already scheduled absorbs
// the request.
func (q *Query[T]) Refetch() {
	select {
	case q.trigger <- struct{}{}:
	default:
	}
}

// Latest returns the result of the most recent fetch. ok is false until the
// first fetch has settled.
func (q *Query[T]) Latest() (value T, err error, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.value, q.err, q.fetches > 0
}

// Next returns the result of the first fetch that settled after the one
// returned by the previous call to Next, waiting for it if necessary. The
// first call returns the result of the first fetch.
func (q *Query[T]) Next(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if q.fetches > q.consumed {
			q.consumed = q.fetches
			value, err := q.value, q.err
			q.mu.Unlock()
			return value, err
		}
		settledCh := q.settledCh
		q.mu.Unlock()

		select {
		case <-settledCh:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.done:
			var zero T
			return zero, ErrClosed
		}
	}
}

// Fetches returns the number of fetches that have settled.
func (q *Query[T]) Fetches() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fetches
}

// Close stops the Query and waits for a running fetch to return.
func (q *Query[T]) Close() {
	q.cancel()
	<-q.done
}
