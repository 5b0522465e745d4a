package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phaseRecorder struct {
	phases []Phase
	states []State
}

func (r *phaseRecorder) record(s State) {
	r.states = append(r.states, s)
	if n := len(r.phases); n == 0 || r.phases[n-1] != s.Phase {
		r.phases = append(r.phases, s.Phase)
	}
}

func fillForm(t *testing.T, w *ContactWorkflow) {
	t.Helper()
	require.NoError(t, w.Edit(FieldName, "Ada Lovelace"))
	require.NoError(t, w.Edit(FieldEmail, "ada@example.com"))
	require.NoError(t, w.Edit(FieldMessage, "Hello there"))
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		form  Form
		field string
	}{
		{"complete", Form{Name: "a", Email: "b", Message: "c"}, ""},
		{"missing name", Form{Email: "b", Message: "c"}, FieldName},
		{"blank email", Form{Name: "a", Email: "   ", Message: "c"}, FieldEmail},
		{"missing message", Form{Name: "a", Email: "b"}, FieldMessage},
		{"all missing", Form{}, FieldName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrIncompleteForm)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFormValidateRejectsLineBreaks(t *testing.T) {
	tests := []struct {
		name  string
		form  Form
		field string
	}{
		{"name with header", Form{Name: "Eve\r\nBcc: victim@example.org", Email: "e@example.com", Message: "hi"}, FieldName},
		{"email with newline", Form{Name: "Eve", Email: "e@example.com\nX: y", Message: "hi"}, FieldEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			require.ErrorIs(t, err, ErrLineBreak)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	multiline := Form{Name: "Eve", Email: "e@example.com", Message: "line one\r\nline two"}
	assert.NoError(t, multiline.Validate())
}

func TestFormSetUnknownField(t *testing.T) {
	var f Form
	require.ErrorIs(t, f.Set("phone", "123"), ErrUnknownField)
}

func TestContactWorkflowSimulatedCycle(t *testing.T) {
	clock := newManualClock()
	rec := &phaseRecorder{}
	w := NewContactWorkflow(ContactConfig{Clock: clock, OnChange: rec.record})
	defer w.Close()

	fillForm(t, w)
	require.NoError(t, w.Submit())
	assert.Equal(t, PhaseSubmitting, w.State().Phase)
	assert.Equal(t, "Ada Lovelace", w.State().Form.Name)

	clock.Advance(DefaultSubmitDelay - time.Millisecond)
	assert.Equal(t, PhaseSubmitting, w.State().Phase)

	clock.Advance(time.Millisecond)
	assert.Equal(t, PhaseSubmitted, w.State().Phase)
	assert.Equal(t, Form{}, w.State().Form)

	clock.Advance(DefaultResetDelay)
	st := w.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, Form{}, st.Form)
	assert.NoError(t, st.Err)

	assert.Equal(t, []Phase{PhaseIdle, PhaseSubmitting, PhaseSubmitted, PhaseIdle}, rec.phases)
	assert.Zero(t, clock.Pending())

	// The form is editable again.
	require.NoError(t, w.Edit(FieldName, "Grace"))
	assert.Equal(t, "Grace", w.State().Form.Name)
}

func TestContactWorkflowIncompleteSubmit(t *testing.T) {
	clock := newManualClock()
	w := NewContactWorkflow(ContactConfig{Clock: clock})
	defer w.Close()

	require.NoError(t, w.Edit(FieldName, "Ada"))
	require.NoError(t, w.Edit(FieldMessage, "Hi"))

	err := w.Submit()
	require.ErrorIs(t, err, ErrIncompleteForm)
	assert.Equal(t, PhaseIdle, w.State().Phase)
	assert.Equal(t, "Ada", w.State().Form.Name)
	assert.Zero(t, clock.Pending())
}

func TestContactWorkflowDoubleSubmit(t *testing.T) {
	clock := newManualClock()
	rec := &phaseRecorder{}
	w := NewContactWorkflow(ContactConfig{Clock: clock, OnChange: rec.record})
	defer w.Close()

	fillForm(t, w)
	require.NoError(t, w.Submit())
	require.ErrorIs(t, w.Submit(), ErrSubmitInFlight)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(DefaultSubmitDelay)
	submitted := 0
	for _, s := range rec.states {
		if s.Phase == PhaseSubmitted {
			submitted++
		}
	}
	assert.Equal(t, 1, submitted)
	require.ErrorIs(t, w.Submit(), ErrSubmitInFlight)
}

func TestContactWorkflowNoEditsWhileBusy(t *testing.T) {
	clock := newManualClock()
	w := NewContactWorkflow(ContactConfig{Clock: clock})
	defer w.Close()

	fillForm(t, w)
	require.NoError(t, w.Submit())
	require.ErrorIs(t, w.Edit(FieldName, "Mallory"), ErrNotEditable)

	clock.Advance(DefaultSubmitDelay)
	require.ErrorIs(t, w.Edit(FieldName, "Mallory"), ErrNotEditable)
	assert.Equal(t, Form{}, w.State().Form)
}

func TestContactWorkflowCustomDelays(t *testing.T) {
	clock := newManualClock()
	w := NewContactWorkflow(ContactConfig{
		Clock:       clock,
		SubmitDelay: 100 * time.Millisecond,
		ResetDelay:  200 * time.Millisecond,
	})
	defer w.Close()

	fillForm(t, w)
	require.NoError(t, w.Submit())
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, PhaseSubmitted, w.State().Phase)
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, PhaseIdle, w.State().Phase)
}

func TestContactWorkflowCloseCancelsTimers(t *testing.T) {
	clock := newManualClock()
	rec := &phaseRecorder{}
	w := NewContactWorkflow(ContactConfig{Clock: clock, OnChange: rec.record})

	fillForm(t, w)
	require.NoError(t, w.Submit())
	w.Close()
	notified := len(rec.states)

	clock.Advance(time.Minute)
	assert.Len(t, rec.states, notified)
	assert.Equal(t, PhaseSubmitting, w.State().Phase)
	assert.Zero(t, clock.Pending())
	require.ErrorIs(t, w.Submit(), ErrClosed)
	require.ErrorIs(t, w.Edit(FieldName, "x"), ErrClosed)
}

func TestContactWorkflowDeliverySuccess(t *testing.T) {
	clock := newManualClock()
	changes := make(chan State, 16)
	var got Form
	w := NewContactWorkflow(ContactConfig{
		Clock: clock,
		Deliver: func(_ context.Context, f Form) error {
			got = f
			return nil
		},
		OnChange: func(s State) { changes <- s },
	})
	defer w.Close()

	fillForm(t, w)
	drain(changes, 3)
	require.NoError(t, w.Submit())
	assert.Equal(t, PhaseSubmitting, (<-changes).Phase)

	st := <-changes
	assert.Equal(t, PhaseSubmitted, st.Phase)
	assert.Equal(t, Form{}, st.Form)
	assert.Equal(t, "ada@example.com", got.Email)

	clock.Advance(DefaultResetDelay)
	assert.Equal(t, PhaseIdle, (<-changes).Phase)
}

func TestContactWorkflowDeliveryFailure(t *testing.T) {
	errDown := errors.New("mail relay down")
	changes := make(chan State, 16)
	w := NewContactWorkflow(ContactConfig{
		Clock:    newManualClock(),
		Deliver:  func(context.Context, Form) error { return errDown },
		OnChange: func(s State) { changes <- s },
	})
	defer w.Close()

	fillForm(t, w)
	drain(changes, 3)
	require.NoError(t, w.Submit())
	assert.Equal(t, PhaseSubmitting, (<-changes).Phase)

	st := <-changes
	assert.Equal(t, PhaseIdle, st.Phase)
	require.ErrorIs(t, st.Err, errDown)
	assert.Equal(t, "Ada Lovelace", st.Form.Name)

	// Editing clears the failure.
	require.NoError(t, w.Edit(FieldMessage, "Second try"))
	assert.NoError(t, w.State().Err)
}

func TestContactWorkflowCloseCancelsDelivery(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan error, 1)
	w := NewContactWorkflow(ContactConfig{
		Clock: newManualClock(),
		Deliver: func(ctx context.Context, _ Form) error {
			close(started)
			<-ctx.Done()
			finished <- ctx.Err()
			return ctx.Err()
		},
	})

	fillForm(t, w)
	require.NoError(t, w.Submit())
	<-started
	w.Close()

	require.ErrorIs(t, <-finished, context.Canceled)
	assert.Equal(t, PhaseSubmitting, w.State().Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "submitted", PhaseSubmitted.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}

func drain(ch <-chan State, n int) {
	for range n {
		<-ch
	}
}
