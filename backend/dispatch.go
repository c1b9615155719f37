package backend

import "sync"

// Dispatcher serializes work onto a single owner goroutine. Engine and
// playlist state is confined to that goroutine: player callbacks and
// off-context I/O completions submit their state mutations here rather
// than touching shared state from their own goroutines.
type Dispatcher struct {
	work     chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		work: make(chan func(), 64),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case f := <-d.work:
			f()
		case <-d.quit:
			// run anything already queued before exiting
			for {
				select {
				case f := <-d.work:
					f()
				default:
					return
				}
			}
		}
	}
}

// Submit queues f to run on the owner goroutine. After Stop, submitted
// work is dropped.
func (d *Dispatcher) Submit(f func()) {
	select {
	case <-d.quit:
	case d.work <- f:
	}
}

// Stop drains queued work and stops the owner goroutine. Blocks until
// the final item has run.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.quit)
	})
	<-d.done
}
