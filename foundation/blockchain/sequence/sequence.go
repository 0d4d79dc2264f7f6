// Package sequence runs ledger mutations one at a time on a single
// goroutine so applies and undos never interleave.
package sequence

import (
	"context"
	"errors"
	"sync"
)

// ErrShutdown is returned when a job is added after shutdown started.
var ErrShutdown = errors.New("sequence is shut down")

// maxPendingJobs represents the number of jobs that can wait in the queue
// before Add blocks the caller.
const maxPendingJobs = 1000

// EventHandler defines a function that is called when events
// occur in the processing of jobs.
type EventHandler func(v string, args ...any)

// Job represents a unit of work executed in order.
type Job func(ctx context.Context) error

type job struct {
	ctx  context.Context
	fn   Job
	done chan error
}

// Sequence executes jobs in the order they were added.
type Sequence struct {
	wg        sync.WaitGroup
	mu        sync.RWMutex
	jobs      chan job
	shut      chan struct{}
	closed    bool
	evHandler EventHandler
}

// New constructs a sequence and starts the goroutine draining it.
func New(evHandler EventHandler) *Sequence {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	s := Sequence{
		jobs:      make(chan job, maxPendingJobs),
		shut:      make(chan struct{}),
		evHandler: ev,
	}

	s.wg.Add(1)
	hasStarted := make(chan bool)

	go func() {
		defer s.wg.Done()
		hasStarted <- true
		s.operations()
	}()

	<-hasStarted

	return &s
}

// Add queues the job and blocks until it ran, returning the job's error.
// A job whose context is done before its turn is skipped and the context
// error is returned.
func (s *Sequence) Add(ctx context.Context, fn Job) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrShutdown
	}

	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case s.jobs <- j:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	return <-j.done
}

// Shutdown stops accepting jobs, runs the ones already queued and
// terminates the goroutine.
func (s *Sequence) Shutdown() {
	s.evHandler("sequence: shutdown: started")
	defer s.evHandler("sequence: shutdown: completed")

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.shut)
	s.mu.Unlock()

	s.wg.Wait()
}

// operations drains the job queue until shutdown.
func (s *Sequence) operations() {
	s.evHandler("sequence: operations: G started")
	defer s.evHandler("sequence: operations: G completed")

	for {
		select {
		case j := <-s.jobs:
			s.run(j)

		case <-s.shut:
			s.evHandler("sequence: operations: received shut signal")

			// Nothing can be added after shut is closed.
			for {
				select {
				case j := <-s.jobs:
					s.run(j)
				default:
					return
				}
			}
		}
	}
}

// run executes a single job and reports its outcome exactly once.
func (s *Sequence) run(j job) {
	if err := j.ctx.Err(); err != nil {
		j.done <- err
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.evHandler("sequence: run: PANIC: %v", r)
			j.done <- errors.New("sequence job panicked")
		}
	}()

	j.done <- j.fn(j.ctx)
}
