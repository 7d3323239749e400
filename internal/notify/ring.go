package notify

import "sync"

// Ring keeps the most recent notifications, oldest first.
// It backs the live-activity panel.
type Ring struct {
	mu      sync.RWMutex
	entries []Notification
	max     int
	total   uint64
}

// NewRing creates a ring holding at most max notifications.
// A non-positive max defaults to 200.
func NewRing(max int) *Ring {
	if max <= 0 {
		max = 200
	}
	return &Ring{max: max, entries: make([]Notification, 0, max)}
}

// Observe appends a notification, evicting the oldest when full.
// It has the Observer signature so it can be passed to Subscribe.
func (r *Ring) Observe(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	if len(r.entries) == r.max {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:r.max-1]
	}
	r.entries = append(r.entries, n)
}

// Entries returns a copy of the retained notifications, oldest first.
func (r *Ring) Entries() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Notification, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns retained notifications with the given severity.
func (r *Ring) Filter(sev Severity) []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Notification
	for _, n := range r.entries {
		if n.Severity == sev {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of retained notifications.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Total returns how many notifications were ever observed.
func (r *Ring) Total() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Clear drops every retained notification.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
