// Package notify provides the lifecycle notification bus for effectlab.
//
// The engine publishes a Notification on every queued, running, success and
// warning transition. Observers (the activity panel, the JSON-lines sink,
// tests) subscribe to all notifications or to a single severity.
package notify

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for display.
type Severity int

const (
	// SeverityInfo marks routine progress such as a task starting.
	SeverityInfo Severity = iota

	// SeveritySuccess marks a task that completed.
	SeveritySuccess

	// SeverityWarning marks a skipped task or an abrupt stop.
	SeverityWarning

	// SeverityMuted marks low-importance chatter such as queueing.
	SeverityMuted
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityMuted:
		return "muted"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name. Unknown names map to SeverityInfo.
func ParseSeverity(s string) Severity {
	switch s {
	case "success":
		return SeveritySuccess
	case "warning", "warn":
		return SeverityWarning
	case "muted":
		return SeverityMuted
	default:
		return SeverityInfo
	}
}

// Notification is a single lifecycle message.
type Notification struct {
	// ID uniquely identifies the notification. Filled by Publish when empty.
	ID string

	// Text is the human-readable message.
	Text string

	// Severity classifies the message.
	Severity Severity

	// TaskID is the task the message refers to, or 0.
	TaskID int64

	// Source identifies the publisher (for example "engine").
	Source string

	// Time is when the notification was published. Filled by Publish when zero.
	Time time.Time
}

// Observer is called for each delivered notification.
type Observer func(n Notification)

// Subscription represents an active observer subscription.
type Subscription struct {
	id  uint64
	bus *Bus
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.bus != nil {
		s.bus.unsubscribe(s.id)
	}
}

// Bus fans notifications out to observers.
type Bus struct {
	mu sync.RWMutex

	// Observers that receive every notification
	globalObservers map[uint64]Observer

	// Observers keyed by the severity they want
	severityObservers map[Severity]map[uint64]Observer

	nextID uint64
	now    func() time.Time

	// Async delivery
	async  bool
	buffer chan Notification
	done   chan struct{}
	wg     sync.WaitGroup

	closed bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithAsync enables asynchronous delivery with the given buffer size.
func WithAsync(bufferSize int) Option {
	return func(b *Bus) {
		if bufferSize > 0 {
			b.async = true
			b.buffer = make(chan Notification, bufferSize)
		}
	}
}

// WithNow sets the time source used to stamp notifications.
func WithNow(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a new Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		globalObservers:   make(map[uint64]Observer),
		severityObservers: make(map[Severity]map[uint64]Observer),
		now:               time.Now,
		done:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.async {
		b.wg.Add(1)
		go b.processAsync()
	}

	return b
}

// Subscribe registers an observer for every notification.
func (b *Bus) Subscribe(observer Observer) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.globalObservers[id] = observer

	return &Subscription{id: id, bus: b}
}

// SubscribeSeverity registers an observer for a single severity.
func (b *Bus) SubscribeSeverity(sev Severity, observer Observer) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.severityObservers[sev] == nil {
		b.severityObservers[sev] = make(map[uint64]Observer)
	}
	b.severityObservers[sev][id] = observer

	return &Subscription{id: id, bus: b}
}

// Publish stamps and delivers a notification.
func (b *Bus) Publish(n Notification) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	b.mu.RUnlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Time.IsZero() {
		n.Time = b.now()
	}

	if b.async {
		select {
		case b.buffer <- n:
		case <-b.done:
		}
		return
	}

	b.deliver(n)
}

// Info publishes an info notification.
func (b *Bus) Info(source, text string, taskID int64) {
	b.Publish(Notification{Text: text, Severity: SeverityInfo, TaskID: taskID, Source: source})
}

// Success publishes a success notification.
func (b *Bus) Success(source, text string, taskID int64) {
	b.Publish(Notification{Text: text, Severity: SeveritySuccess, TaskID: taskID, Source: source})
}

// Warning publishes a warning notification.
func (b *Bus) Warning(source, text string, taskID int64) {
	b.Publish(Notification{Text: text, Severity: SeverityWarning, TaskID: taskID, Source: source})
}

// Muted publishes a muted notification.
func (b *Bus) Muted(source, text string, taskID int64) {
	b.Publish(Notification{Text: text, Severity: SeverityMuted, TaskID: taskID, Source: source})
}

// Close shuts down the bus. It is safe to call Close multiple times.
// Buffered async notifications are delivered before Close returns.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.wg.Wait()
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.globalObservers, id)
	for sev, observers := range b.severityObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(b.severityObservers, sev)
		}
	}
}

// deliver sends a notification to all matching observers in subscription order.
func (b *Bus) deliver(n Notification) {
	b.mu.RLock()
	type entry struct {
		id  uint64
		obs Observer
	}
	var matched []entry
	for id, obs := range b.globalObservers {
		matched = append(matched, entry{id, obs})
	}
	for id, obs := range b.severityObservers[n.Severity] {
		matched = append(matched, entry{id, obs})
	}
	b.mu.RUnlock()

	slices.SortFunc(matched, func(a, c entry) int { return cmp.Compare(a.id, c.id) })

	// Call observers outside the lock
	for _, e := range matched {
		e.obs(n)
	}
}

func (b *Bus) processAsync() {
	defer b.wg.Done()

	for {
		select {
		case n := <-b.buffer:
			b.deliver(n)
		case <-b.done:
			// Drain remaining buffered notifications
			for {
				select {
				case n := <-b.buffer:
					b.deliver(n)
				default:
					return
				}
			}
		}
	}
}
