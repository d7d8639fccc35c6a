package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/result"
	"github.com/prasetyowira/starter/domain/status"
	"github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/reqctx"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout applies when a Helper is built with a non-positive timeout.
const DefaultTimeout = 60 * time.Second

// Helper submits work to a Pool under a timeout.
type Helper struct {
	pool    *Pool
	timeout time.Duration
}

// NewHelper returns a Helper running work on pool.
func NewHelper(pool *Pool, timeout time.Duration) *Helper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Helper{pool: pool, timeout: timeout}
}

// Timeout returns the configured timeout.
func (h *Helper) Timeout() time.Duration { return h.timeout }

// Future is the completion channel of a submitted unit of work.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Done is closed once the future completed.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Get waits for completion and returns the value or the failure, which is
// an *apperror.AsyncError. It returns ctx.Err() when ctx ends first.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wait is Get without the value.
func (f *Future[T]) Wait(ctx context.Context) error {
	_, err := f.Get(ctx)
	return err
}

func (f *Future[T]) complete(value T, err error, onFailure func(error) error) bool {
	completed := false
	f.once.Do(func() {
		if err != nil {
			f.err = onFailure(err)
		} else {
			f.value = value
		}
		completed = true
		close(f.done)
	})
	return completed
}

// Supply runs fn on the helper's pool.
//
// The request identity of ctx is captured at submission and handed to fn
// through its own context, which carries the timeout measured from
// submission. When fn fails, panics or times out, the failure is converted
// into an envelope and delivered through deferred when one is given; it is
// only logged otherwise. A successful value is only returned through the
// Future and never touches deferred.
//
// Cancellation on timeout is best effort: fn's context is cancelled, but fn
// may keep running and its late result is dropped.
func Supply[T any](ctx context.Context, h *Helper, fn func(ctx context.Context) (T, error), deferred ...*Deferred) *Future[T] {
	var d *Deferred
	if len(deferred) > 0 {
		d = deferred[0]
	}

	future := newFuture[T]()
	workCtx, cancel := context.WithTimeout(reqctx.Detach(ctx), h.timeout)
	onFailure := func(err error) error {
		return handleFailure(workCtx, err, d)
	}

	stop := context.AfterFunc(workCtx, func() {
		if errors.Is(workCtx.Err(), context.DeadlineExceeded) {
			var zero T
			future.complete(zero, apperror.ErrTimeout, onFailure)
		}
	})

	task := func() {
		defer cancel()
		defer stop()
		if workCtx.Err() != nil {
			return
		}
		value, err := call(workCtx, fn)
		if errors.Is(workCtx.Err(), context.DeadlineExceeded) {
			var zero T
			value, err = zero, apperror.ErrTimeout
		}
		future.complete(value, err, onFailure)
	}

	if _, err := h.pool.Submit(task); err != nil {
		stop()
		cancel()
		var zero T
		future.complete(zero, err, onFailure)
	}
	return future
}

// Run is Supply for work without a result.
func (h *Helper) Run(ctx context.Context, fn func(ctx context.Context) error, deferred ...*Deferred) *Future[struct{}] {
	return Supply(ctx, h, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, deferred...)
}

// Awaitable is implemented by *Future.
type Awaitable interface {
	Wait(ctx context.Context) error
}

// AllOf waits for every future and combines their failures.
func AllOf(ctx context.Context, futures ...Awaitable) error {
	var g errgroup.Group
	errs := make([]error, len(futures))
	for i, f := range futures {
		i, f := i, f
		g.Go(func() error {
			errs[i] = f.Wait(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}

func call[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %s", panicMessage(rec))
		}
	}()
	return fn(ctx)
}

// handleFailure converts err into an envelope, delivers it through d and
// writes one log entry.
func handleFailure(ctx context.Context, err error, d *Deferred) error {
	path := reqctx.Path(ctx)
	asyncErr := &apperror.AsyncError{Cause: err, Path: path}

	if de, ok := apperror.AsDomainError(err); ok {
		if d != nil {
			asyncErr.Delivered = d.SetResult(result.FailWithDetail[any](de.Status(), de.Message(), nil))
		}
		logger.CtxWarn(ctx, constant.MsgAsyncBusinessFailure, logger.LoggerInfo{
			ContextFunction: constant.CtxAsync,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAsyncBusiness,
				Message: de.Message(),
				Type:    constant.ErrTypeBusiness,
			},
			Data: map[string]interface{}{
				constant.DataPath: path,
				constant.DataCode: de.Status().Code(),
			},
			Cause: de.Unwrap(),
		})
		return asyncErr
	}

	if d != nil {
		asyncErr.Delivered = d.SetResult(result.FailWithCause[any](status.TimeoutOrSystemError, err))
	}
	logger.CtxError(ctx, constant.MsgAsyncFailure, logger.LoggerInfo{
		ContextFunction: constant.CtxAsync,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeAsyncFailure,
			Message: err.Error(),
			Type:    constant.ErrTypeAsync,
		},
		Data: map[string]interface{}{
			constant.DataPath: path,
			constant.DataCode: status.TimeoutOrSystemError.Code(),
		},
		Cause: err,
	})
	return asyncErr
}

func panicMessage(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
