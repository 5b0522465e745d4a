package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSubmitDelay = 1500 * time.Millisecond
	DefaultResetDelay  = 3 * time.Second
)

var (
	ErrIncompleteForm = errors.New("required field is empty")
	ErrLineBreak      = errors.New("line breaks are not allowed")
	ErrUnknownField   = errors.New("unknown form field")
	ErrNotEditable    = errors.New("form is not editable while a message is being sent")
	ErrSubmitInFlight = errors.New("a message is already being sent")
	ErrClosed         = errors.New("contact form closed")
)

// Phase is where the contact form is in its send cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Form field names, as used by the rendered inputs.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// Form is what a visitor types into the contact section.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate reports the first required field left blank. Name and email are
// single-line fields.
func (f Form) Validate() error {
	for _, field := range []struct {
		name, value string
		multiline   bool
	}{
		{FieldName, f.Name, false},
		{FieldEmail, f.Email, false},
		{FieldMessage, f.Message, true},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s: %w", field.name, ErrIncompleteForm)
		}
		if !field.multiline && strings.ContainsAny(field.value, "\r\n") {
			return fmt.Errorf("%s: %w", field.name, ErrLineBreak)
		}
	}
	return nil
}

// Set updates one field by its input name.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return nil
}

// State is a snapshot handed to OnChange.
type State struct {
	Phase Phase
	Form  Form
	// Err is the last delivery failure, cleared by the next edit or submit.
	Err error
}

// ContactConfig configures a ContactWorkflow. Zero values take the defaults.
type ContactConfig struct {
	SubmitDelay time.Duration
	ResetDelay  time.Duration
	Clock       Clock
	// Deliver sends the message for real. When nil the send is simulated by
	// waiting SubmitDelay, which cannot fail.
	Deliver func(ctx context.Context, f Form) error
	// OnChange runs with the workflow locked after every edit and transition.
	// It must not call back into the workflow.
	OnChange func(State)
	Logger   *zap.Logger
}

// ContactWorkflow drives the contact form: idle, submitting, submitted, and
// back to idle after ResetDelay.
type ContactWorkflow struct {
	submitDelay time.Duration
	resetDelay  time.Duration
	clock       Clock
	deliver     func(ctx context.Context, f Form) error
	onChange    func(State)
	log         *zap.Logger

	mu     sync.Mutex
	state  State
	timer  Timer
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

func NewContactWorkflow(cfg ContactConfig) *ContactWorkflow {
	w := &ContactWorkflow{
		submitDelay: cfg.SubmitDelay,
		resetDelay:  cfg.ResetDelay,
		clock:       cfg.Clock,
		deliver:     cfg.Deliver,
		onChange:    cfg.OnChange,
		log:         cfg.Logger,
	}
	if w.submitDelay <= 0 {
		w.submitDelay = DefaultSubmitDelay
	}
	if w.resetDelay <= 0 {
		w.resetDelay = DefaultResetDelay
	}
	if w.clock == nil {
		w.clock = SystemClock{}
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	return w
}

// State returns the current snapshot.
func (w *ContactWorkflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Edit changes one field. Only an idle form accepts edits.
func (w *ContactWorkflow) Edit(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.state.Phase != PhaseIdle {
		return ErrNotEditable
	}
	if err := w.state.Form.Set(field, value); err != nil {
		return err
	}
	w.state.Err = nil
	w.notify()
	return nil
}

// Submit starts sending the current form. An incomplete form or a send
// already in flight leaves the state untouched.
func (w *ContactWorkflow) Submit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.state.Phase != PhaseIdle {
		return ErrSubmitInFlight
	}
	if err := w.state.Form.Validate(); err != nil {
		return err
	}

	w.gen++
	gen := w.gen
	w.state.Phase = PhaseSubmitting
	w.state.Err = nil
	w.log.Debug("contact form submitting", zap.String("email", w.state.Form.Email))
	w.notify()

	if w.deliver == nil {
		w.timer = w.clock.AfterFunc(w.submitDelay, func() { w.finish(gen, nil) })
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	form := w.state.Form
	go func() {
		w.finish(gen, w.deliver(ctx, form))
	}()
	return nil
}

func (w *ContactWorkflow) finish(gen uint64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || gen != w.gen || w.state.Phase != PhaseSubmitting {
		return
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if err != nil {
		w.log.Warn("contact delivery failed", zap.Error(err))
		w.state.Phase = PhaseIdle
		w.state.Err = err
		w.notify()
		return
	}
	w.state.Phase = PhaseSubmitted
	w.state.Form = Form{}
	w.notify()
	w.timer = w.clock.AfterFunc(w.resetDelay, func() { w.reset(gen) })
}

func (w *ContactWorkflow) reset(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || gen != w.gen || w.state.Phase != PhaseSubmitted {
		return
	}
	w.state.Phase = PhaseIdle
	w.notify()
}

// Close cancels pending timers and deliveries. OnChange never runs after
// Close returns.
func (w *ContactWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *ContactWorkflow) notify() {
	if w.onChange != nil {
		w.onChange(w.state)
	}
}
