package async

import (
	"context"
	"sync"

	"github.com/prasetyowira/starter/domain/result"
)

// Deferred is a response placeholder fulfilled at most once, typically by a
// failing background task.
type Deferred struct {
	once sync.Once
	ch   chan result.Envelope[any]
}

// NewDeferred returns an empty Deferred.
func NewDeferred() *Deferred {
	return &Deferred{ch: make(chan result.Envelope[any], 1)}
}

// SetResult fulfils d. Only the first call has an effect; it reports whether
// env was accepted.
func (d *Deferred) SetResult(env result.Envelope[any]) bool {
	accepted := false
	d.once.Do(func() {
		d.ch <- env
		close(d.ch)
		accepted = true
	})
	return accepted
}

// Result returns a channel yielding the envelope once d is fulfilled.
func (d *Deferred) Result() <-chan result.Envelope[any] {
	return d.ch
}

// Wait blocks until d is fulfilled or ctx is done.
func (d *Deferred) Wait(ctx context.Context) (result.Envelope[any], bool) {
	select {
	case env, ok := <-d.ch:
		return env, ok
	case <-ctx.Done():
		return result.Envelope[any]{}, false
	}
}
