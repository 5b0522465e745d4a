package ui

import (
	"sync"
	"time"
)

const (
	DefaultMinLoading    = 2 * time.Second
	DefaultTrailingDelay = 300 * time.Millisecond
)

// LoaderConfig configures a Loader. Zero durations take the defaults.
type LoaderConfig struct {
	MinDuration   time.Duration
	TrailingDelay time.Duration
	Clock         Clock
	// Frames defaults to ClockFrames on Clock.
	Frames Frames
	// OnProgress receives a value in [0, 1] on every tick.
	OnProgress func(float64)
	// OnComplete fires once, after progress reached 1 and TrailingDelay passed.
	OnComplete func()
}

// Loader animates the loading screen for at least MinDuration.
// Callbacks run with the loader locked and must not call back into it.
type Loader struct {
	min      time.Duration
	trailing time.Duration
	clock    Clock
	frames   Frames
	progress func(float64)
	complete func()

	mu          sync.Mutex
	start       time.Time
	value       float64
	cancelFrame func()
	timer       Timer
	started     bool
	stopped     bool
	done        bool
}

func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		min:      cfg.MinDuration,
		trailing: cfg.TrailingDelay,
		clock:    cfg.Clock,
		frames:   cfg.Frames,
		progress: cfg.OnProgress,
		complete: cfg.OnComplete,
	}
	if l.min <= 0 {
		l.min = DefaultMinLoading
	}
	if l.trailing <= 0 {
		l.trailing = DefaultTrailingDelay
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.frames == nil {
		l.frames = ClockFrames{Clock: l.clock}
	}
	return l
}

// Start begins ticking. Calling it again has no effect.
func (l *Loader) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return
	}
	l.started = true
	l.start = l.clock.Now()
	l.cancelFrame = l.frames.RequestFrame(l.tick)
}

func (l *Loader) tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.cancelFrame = nil
	elapsed := l.clock.Now().Sub(l.start)
	l.value = min(float64(elapsed)/float64(l.min), 1)
	if l.progress != nil {
		l.progress(l.value)
	}
	if l.value < 1 {
		l.cancelFrame = l.frames.RequestFrame(l.tick)
		return
	}
	l.timer = l.clock.AfterFunc(l.trailing, l.finish)
}

func (l *Loader) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || l.done {
		return
	}
	l.done = true
	l.timer = nil
	if l.complete != nil {
		l.complete()
	}
}

// Stop cancels any pending tick or timer. OnComplete never fires after Stop
// returns.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	if l.cancelFrame != nil {
		l.cancelFrame()
		l.cancelFrame = nil
	}
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Progress is the last reported value in [0, 1].
func (l *Loader) Progress() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Visible reports whether the loading screen is still shown.
func (l *Loader) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.done && !l.stopped
}
