package anim

import (
	"sync"
	"time"
)

// Duration bounds enforced by the Config setters.
const (
	MinDuration     = 50 * time.Millisecond
	MaxDuration     = 2000 * time.Millisecond
	DefaultDuration = 400 * time.Millisecond
)

// Snapshot is the immutable animation configuration a task runs with.
type Snapshot struct {
	Duration time.Duration
	Easing   Easing
}

// ConfigObserver is called after the configuration changes.
type ConfigObserver func(old, current Snapshot)

// Config holds the current animation duration and easing.
// It may be changed at any time; tasks read it once when they start.
type Config struct {
	mu        sync.RWMutex
	current   Snapshot
	observers map[uint64]ConfigObserver
	nextID    uint64
}

// NewConfig creates a Config with the default duration and easing.
func NewConfig() *Config {
	return &Config{
		current:   Snapshot{Duration: DefaultDuration, Easing: DefaultEasing},
		observers: make(map[uint64]ConfigObserver),
	}
}

// ClampDuration bounds d to [MinDuration, MaxDuration].
func ClampDuration(d time.Duration) time.Duration {
	if d < MinDuration {
		return MinDuration
	}
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}

// Get returns the current snapshot.
func (c *Config) Get() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set updates both values. The duration is clamped and an unsupported easing
// leaves the current easing untouched. Returns the resulting snapshot.
func (c *Config) Set(d time.Duration, e Easing) Snapshot {
	return c.update(func(s *Snapshot) {
		s.Duration = ClampDuration(d)
		if e.Valid() {
			s.Easing = e
		}
	})
}

// SetDuration updates the duration, clamped to the supported range.
func (c *Config) SetDuration(d time.Duration) Snapshot {
	return c.update(func(s *Snapshot) {
		s.Duration = ClampDuration(d)
	})
}

// SetEasing updates the easing. Unsupported names are ignored.
func (c *Config) SetEasing(e Easing) Snapshot {
	return c.update(func(s *Snapshot) {
		if e.Valid() {
			s.Easing = e
		}
	})
}

// OnChange registers an observer and returns a function that removes it.
func (c *Config) OnChange(fn ConfigObserver) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Config) update(apply func(*Snapshot)) Snapshot {
	c.mu.Lock()
	old := c.current
	apply(&c.current)
	current := c.current
	var observers []ConfigObserver
	if current != old {
		for _, obs := range c.observers {
			observers = append(observers, obs)
		}
	}
	c.mu.Unlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(old, current)
	}
	return current
}

// resolve applies per-task overrides on top of a config snapshot.
// Overrides are clamped the same way the setters clamp.
func (s Snapshot) resolve(p *Params) Snapshot {
	if p == nil {
		return s
	}
	if p.Duration > 0 {
		s.Duration = ClampDuration(p.Duration)
	}
	if p.Easing.Valid() {
		s.Easing = p.Easing
	}
	return s
}
