// Package ui holds the page behaviors shared by every section: reveal on
// scroll, the loading screen, the sticky navbar and the contact form workflow.
// Nothing here touches the DOM; the wasm client binds these types to the
// browser and the tests drive them with fakes.
package ui

import "time"

// Clock is the time source for every delay in this package.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Frames schedules a callback for the next animation tick.
// The returned func cancels the request if it has not run yet.
type Frames interface {
	RequestFrame(f func()) (cancel func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FrameInterval is the tick rate of ClockFrames.
const FrameInterval = time.Second / 60

// ClockFrames ticks at FrameInterval on a Clock, for hosts without an
// animation-frame callback.
type ClockFrames struct {
	Clock Clock
}

func (f ClockFrames) RequestFrame(fn func()) func() {
	t := f.Clock.AfterFunc(FrameInterval, fn)
	return func() { t.Stop() }
}
