package ui

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualClock only moves when Advance is called. Timers fire in deadline
// order on the calling goroutine.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	done    bool
	stopped bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.done || t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done && !t.stopped {
			n++
		}
	}
	return n
}

// manualFrames queues frame callbacks until Flush.
type manualFrames struct {
	mu    sync.Mutex
	queue []*frameRequest
}

type frameRequest struct {
	f        func()
	canceled bool
}

func (m *manualFrames) RequestFrame(f func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	req := &frameRequest{f: f}
	m.queue = append(m.queue, req)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		req.canceled = true
	}
}

func (m *manualFrames) Flush() {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()
	for _, req := range queue {
		m.mu.Lock()
		canceled := req.canceled
		m.mu.Unlock()
		if !canceled {
			req.f()
		}
	}
}

func (m *manualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, req := range m.queue {
		if !req.canceled {
			n++
		}
	}
	return n
}
