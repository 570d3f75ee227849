// Package workerpool provides a small bounded worker pool for fanning
// out independent CPU-bound tasks, such as pairwise similarity scans.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after Shutdown
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Config holds worker pool configuration
type Config struct {
	Workers   int
	QueueSize int
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workerpool: workers must be positive, got %d", c.Workers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("workerpool: queue size must be non-negative, got %d", c.QueueSize)
	}
	return nil
}

// DefaultConfig returns a configuration sized to the machine
func DefaultConfig() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		QueueSize: 256,
	}
}

// Pool manages a fixed set of worker goroutines consuming a task queue
type Pool struct {
	tasks   chan func() error
	wg      sync.WaitGroup
	pending sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  atomic.Bool

	mu       sync.Mutex
	taskErrs []error
}

// New creates a started worker pool
func New(config Config) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan func() error, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p, nil
}

// NewDefault creates a pool with DefaultConfig
func NewDefault() *Pool {
	p, _ := New(DefaultConfig())
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(task)
		}
	}
}

func (p *Pool) run(task func() error) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			p.recordErr(fmt.Errorf("workerpool: task panic: %v", r))
		}
	}()

	if err := task(); err != nil {
		p.recordErr(err)
	}
}

func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	p.taskErrs = append(p.taskErrs, err)
	p.mu.Unlock()
}

// Submit enqueues a task, blocking if the queue is full. Returns
// ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func() error) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.pending.Add(1)
	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		p.pending.Done()
		return ErrPoolClosed
	}
}

// Wait blocks until all submitted tasks have completed and returns the
// errors collected from them, if any.
func (p *Pool) Wait() []error {
	p.pending.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	errs := make([]error, len(p.taskErrs))
	copy(errs, p.taskErrs)
	return errs
}

// Shutdown stops accepting tasks, waits for in-flight tasks to finish
// and releases the workers.
func (p *Pool) Shutdown() {
	if p.closed.Swap(true) {
		return
	}
	p.pending.Wait()
	p.cancel()
	close(p.tasks)
	p.wg.Wait()
}
