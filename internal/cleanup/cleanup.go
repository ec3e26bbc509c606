// Package cleanup runs best-effort compensating actions, such as deleting a
// stored image after its slide stops referencing it. Scheduling never blocks
// or fails the caller's primary operation; failures are logged and dropped.
package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Action is one compensating step.
type Action struct {
	Kind   string
	Target string
}

// Scheduler accepts compensating actions for asynchronous execution.
type Scheduler interface {
	Schedule(a Action)
}

// ExecFunc performs one action.
type ExecFunc func(ctx context.Context, a Action) error

// Runner executes scheduled actions on a single background goroutine.
type Runner struct {
	log     zerolog.Logger
	exec    ExecFunc
	ch      chan Action
	stop    chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewRunner starts a runner with a bounded queue. When the queue is full the
// action is dropped with a warning rather than blocking the caller.
func NewRunner(log zerolog.Logger, exec ExecFunc) *Runner {
	r := &Runner{
		log:     log,
		exec:    exec,
		ch:      make(chan Action, 64),
		stop:    make(chan struct{}),
		timeout: 30 * time.Second,
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for {
		select {
		case a := <-r.ch:
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			if err := r.exec(ctx, a); err != nil {
				r.log.Warn().Err(err).Str("kind", a.Kind).Str("target", a.Target).Msg("cleanup action failed")
			}
			cancel()
		case <-r.stop:
			return
		}
	}
}

// Schedule enqueues an action without blocking.
func (r *Runner) Schedule(a Action) {
	select {
	case r.ch <- a:
	default:
		r.log.Warn().Str("kind", a.Kind).Str("target", a.Target).Msg("cleanup queue full, action dropped")
	}
}

// Close stops the runner. Queued actions not yet started are abandoned.
func (r *Runner) Close() {
	r.stopped.Do(func() { close(r.stop) })
	r.wg.Wait()
}

// Recorder collects scheduled actions for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

func (r *Recorder) Schedule(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

// Actions returns a copy of everything scheduled so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}
