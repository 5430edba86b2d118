// Package dispatcher delivers completion callbacks on a single foreground
// goroutine.
//
// Background work (copies, watcher batches) posts closures here instead of
// calling consumers directly, so consumers never observe two callbacks at the
// same time and never run on a worker goroutine.
package dispatcher

import (
	"sync"

	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/rs/zerolog"
)

// Dispatcher runs posted callbacks one at a time, in posting order
type Dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
	logger zerolog.Logger
}

// New starts a dispatcher goroutine
func New() *Dispatcher {
	d := &Dispatcher{
		done:   make(chan struct{}),
		logger: logging.GetLogger("dispatcher"),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Post enqueues fn. It never blocks. After Close it returns false and fn is
// never run.
func (d *Dispatcher) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Debug().Msg("Dropping callback posted after close")
		return false
	}
	d.queue = append(d.queue, fn)
	d.cond.Signal()
	return true
}

// Close runs every callback already posted, then stops the goroutine.
// Calling Close from inside a callback deadlocks.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		d.cond.Broadcast()
	}
	d.mu.Unlock()
	<-d.done
}

// Pending returns the number of callbacks waiting to run
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.invoke(fn)
	}
}

// invoke keeps a panicking callback from taking the dispatcher down
func (d *Dispatcher) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Msg("Callback panicked")
		}
	}()
	fn()
}
