package menu

import (
	"context"

	"github.com/charmbracelet/log"
)

// Loop is the single cooperative scheduler: every state mutation and query
// runs as a queued action on one goroutine, in arrival order. The feed
// reader and the IPC server both enqueue here instead of touching the
// Manager directly, which is what lets the whole state layer stay lock-free.
type Loop struct {
	actions chan func()
}

// NewLoop creates a loop with a small action buffer; enqueuers block once it
// fills, which is the backpressure this system needs (none of the actions do
// more than in-memory list and string work).
func NewLoop() *Loop {
	return &Loop{actions: make(chan func(), 64)}
}

// Run executes queued actions until the context ends.
func (l *Loop) Run(ctx context.Context) error {
	log.Debug("Menu loop running")
	for {
		select {
		case fn := <-l.actions:
			fn()
		case <-ctx.Done():
			log.Debug("Menu loop stopped")
			return nil
		}
	}
}

// Do enqueues fn for asynchronous execution on the loop goroutine.
func (l *Loop) Do(fn func()) {
	l.actions <- fn
}

// Call runs fn on the loop goroutine and waits for it to finish. Must not be
// called from the loop goroutine itself.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.actions <- func() {
		fn()
		close(done)
	}
	<-done
}
