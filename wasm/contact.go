//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall/js"
	"time"

	"github.com/DilshanHF/portfolio/ui"
)

// postContact sends the form to the server's /contact endpoint.
func postContact(endpoint string) func(ctx context.Context, f ui.Form) error {
	return func(ctx context.Context, f ui.Form) error {
		body := url.Values{
			ui.FieldName:    {f.Name},
			ui.FieldEmail:   {f.Email},
			ui.FieldMessage: {f.Message},
		}.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
			return fmt.Errorf("send message: %s", resp.Status)
		}
		return errors.New(payload.Error)
	}
}

func (p *page) mountContact() {
	form := p.doc.Call("getElementById", "contact-form")
	if form.IsNull() {
		return
	}
	sent := p.doc.Call("getElementById", "contact-sent")
	errBox := p.doc.Call("getElementById", "contact-error")
	button := p.doc.Call("getElementById", "contact-submit")
	fields := map[string]js.Value{}
	for _, name := range []string{ui.FieldName, ui.FieldEmail, ui.FieldMessage} {
		fields[name] = p.doc.Call("getElementById", name)
	}

	cfg := ui.ContactConfig{
		SubmitDelay: time.Duration(dataInt(form, "submitDelayMs")) * time.Millisecond,
		ResetDelay:  time.Duration(dataInt(form, "resetDelayMs")) * time.Millisecond,
		Logger:      p.log,
		OnChange: func(s ui.State) {
			renderContact(s, form, sent, errBox, button, fields)
		},
	}
	if endpoint := form.Get("dataset").Get("endpoint"); !endpoint.IsUndefined() && endpoint.String() != "" {
		cfg.Deliver = postContact(endpoint.String())
	}
	p.contact = ui.NewContactWorkflow(cfg)

	for name, input := range fields {
		p.on(input, "input", func(js.Value) {
			p.contact.Edit(name, input.Get("value").String())
		})
	}
	p.on(form, "submit", func(ev js.Value) {
		ev.Call("preventDefault")
		switch err := p.contact.Submit(); {
		case errors.Is(err, ui.ErrIncompleteForm):
			form.Call("reportValidity")
		case errors.Is(err, ui.ErrLineBreak) && !errBox.IsNull():
			errBox.Set("textContent", err.Error())
			setHidden(errBox, false)
		}
	})
}

func renderContact(s ui.State, form, sent, errBox, button js.Value, fields map[string]js.Value) {
	submitting := s.Phase == ui.PhaseSubmitting
	setHidden(form, s.Phase == ui.PhaseSubmitted)
	setHidden(sent, s.Phase != ui.PhaseSubmitted)

	values := map[string]string{
		ui.FieldName:    s.Form.Name,
		ui.FieldEmail:   s.Form.Email,
		ui.FieldMessage: s.Form.Message,
	}
	for name, input := range fields {
		if input.IsNull() {
			continue
		}
		input.Set("disabled", submitting)
		if input.Get("value").String() != values[name] {
			input.Set("value", values[name])
		}
	}

	if !button.IsNull() {
		button.Set("disabled", submitting)
		if submitting {
			button.Set("textContent", "Sending...")
		} else {
			button.Set("textContent", "Send Message")
		}
	}
	if !errBox.IsNull() {
		if s.Err != nil {
			errBox.Set("textContent", s.Err.Error())
		}
		setHidden(errBox, s.Err == nil)
	}
}
