// Package async runs units of work on a bounded worker pool and converts
// their failures into response envelopes.
package async

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/infrastructure/logger"
	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned when submitting to a pool after Shutdown.
var ErrPoolClosed = errors.New("async pool is shut down")

// PoolConfig sizes a Pool.
type PoolConfig struct {
	// CoreSize workers are started with the pool and live until Shutdown.
	CoreSize int
	// MaxSize bounds the number of workers, core workers included.
	MaxSize int
	// QueueCapacity bounds the tasks waiting for a worker.
	QueueCapacity int
	// KeepAlive is how long an idle extra worker waits for work before exiting.
	KeepAlive time.Duration
	// NamePrefix labels workers in logs.
	NamePrefix string
}

// DefaultPoolConfig mirrors the defaults of the configuration layer.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		CoreSize:      10,
		MaxSize:       50,
		QueueCapacity: 500,
		KeepAlive:     60 * time.Second,
		NamePrefix:    "Async-Executor-",
	}
}

// Pool is a bounded worker pool. Tasks go to an idle core worker through the
// queue; when the queue is full an extra worker is started up to MaxSize; when
// that is not possible either, the task runs on the submitting goroutine.
type Pool struct {
	cfg     PoolConfig
	queue   chan func()
	extra   *semaphore.Weighted
	workers sync.WaitGroup
	nextID  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewPool starts the core workers.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.CoreSize < 1 {
		cfg.CoreSize = 1
	}
	if cfg.MaxSize < cfg.CoreSize {
		cfg.MaxSize = cfg.CoreSize
	}
	if cfg.QueueCapacity < 0 {
		cfg.QueueCapacity = 0
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = time.Minute
	}

	p := &Pool{
		cfg:   cfg,
		queue: make(chan func(), cfg.QueueCapacity),
		extra: semaphore.NewWeighted(int64(cfg.MaxSize - cfg.CoreSize)),
	}
	for i := 0; i < cfg.CoreSize; i++ {
		p.workers.Add(1)
		go p.coreWorker(p.workerName())
	}

	logger.Debug(constant.MsgPoolStarted, logger.LoggerInfo{
		ContextFunction: constant.CtxPool,
		Data: map[string]interface{}{
			constant.DataPoolCore: cfg.CoreSize,
			constant.DataPoolMax:  cfg.MaxSize,
			constant.DataQueue:    cfg.QueueCapacity,
		},
	})

	return p
}

// Submit schedules task. It reports whether the task ran synchronously on
// the caller because the pool was saturated.
func (p *Pool) Submit(task func()) (ranOnCaller bool, err error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false, ErrPoolClosed
	}

	select {
	case p.queue <- task:
		p.mu.RUnlock()
		return false, nil
	default:
	}

	if p.extra.TryAcquire(1) {
		p.workers.Add(1)
		p.mu.RUnlock()
		go p.extraWorker(p.workerName(), task)
		return false, nil
	}
	p.mu.RUnlock()

	logger.Warn(constant.MsgPoolCallerRuns, logger.LoggerInfo{
		ContextFunction: constant.CtxPool,
		Data: map[string]interface{}{
			constant.DataPoolMax: p.cfg.MaxSize,
			constant.DataQueue:   p.cfg.QueueCapacity,
		},
	})
	p.run("caller", task)
	return true, nil
}

// Shutdown stops accepting tasks, lets queued tasks finish and waits for the
// workers until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Debug(constant.MsgPoolStopped, logger.LoggerInfo{ContextFunction: constant.CtxPool})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) workerName() string {
	return p.cfg.NamePrefix + strconv.FormatInt(p.nextID.Add(1), 10)
}

func (p *Pool) coreWorker(name string) {
	defer p.workers.Done()
	for task := range p.queue {
		p.run(name, task)
	}
}

func (p *Pool) extraWorker(name string, first func()) {
	defer p.workers.Done()
	defer p.extra.Release(1)

	p.run(name, first)

	idle := time.NewTimer(p.cfg.KeepAlive)
	defer idle.Stop()
	for {
		select {
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(name, task)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(p.cfg.KeepAlive)
		case <-idle.C:
			return
		}
	}
}

// run executes task and keeps a panicking task from killing the worker.
func (p *Pool) run(worker string, task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(constant.MsgAsyncPanic, logger.LoggerInfo{
				ContextFunction: constant.CtxPool,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeAsyncPanic,
					Message: panicMessage(rec),
					Type:    constant.ErrTypeAsync,
				},
				Data: map[string]interface{}{
					constant.DataWorker: worker,
				},
			})
		}
	}()
	task()
}
