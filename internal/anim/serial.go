package anim

import (
	"fmt"
	"sync"
)

// serial is a sequenced execution context.
//
// Closures posted from any goroutine run one at a time in FIFO order. The
// goroutine that finds the context idle becomes the drainer and runs every
// closure queued until the inbox is empty; other posters return immediately.
// A closure that posts again (directly or via a synchronous surface signal)
// is queued behind the current one rather than nested.
type serial struct {
	mu       sync.Mutex
	inbox    []func()
	draining bool
	seq      int64

	// after runs at the end of each drain, still inside the context.
	after func()

	// onPanic receives values recovered from closures.
	onPanic func(recovered any)
}

// post queues fn and drains the inbox if no other goroutine is draining.
func (s *serial) post(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.drainLocked()
}

// postSeq assigns the next sequence number and queues fn with it.
// Sequence numbers increase strictly in post order.
func (s *serial) postSeq(fn func(seq int64)) int64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inbox = append(s.inbox, func() { fn(seq) })
	s.drainLocked()
	return seq
}

// drainLocked must be called with mu held; it returns with mu released.
func (s *serial) drainLocked() {
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.inbox) > 0 {
		fn := s.inbox[0]
		s.inbox[0] = nil
		s.inbox = s.inbox[1:]
		s.mu.Unlock()

		s.run(fn)

		s.mu.Lock()
		if len(s.inbox) == 0 && s.after != nil {
			after := s.after
			s.mu.Unlock()
			s.run(after)
			s.mu.Lock()
		}
	}

	s.inbox = nil
	s.draining = false
	s.mu.Unlock()
}

// run executes fn, converting a panic into an onPanic call so the
// context never stays marked as draining.
func (s *serial) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && s.onPanic != nil {
			s.onPanic(r)
		}
	}()
	fn()
}

// panicError formats a recovered value.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
