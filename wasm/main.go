//go:build js && wasm

// Command wasm is the browser half of the portfolio. It binds the page
// behaviors in package ui to the server-rendered DOM.
package main

import (
	"fmt"
	"syscall/js"
	"time"

	"go.uber.org/zap"

	"github.com/DilshanHF/portfolio/ui"
)

type page struct {
	doc js.Value
	log *zap.Logger

	registry  elementRegistry
	reveals   []*ui.RevealController[int]
	loader    *ui.Loader
	navbar    *ui.Navbar
	contact   *ui.ContactWorkflow
	listeners []listener
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	p := &page{doc: js.Global().Get("document"), log: logger}
	p.mount()

	done := make(chan struct{})
	p.on(js.Global(), "pagehide", func(ev js.Value) {
		// A page kept in the back/forward cache comes back as it was.
		if ev.Get("persisted").Bool() {
			return
		}
		p.unmount()
		close(done)
	})
	<-done
}

// on registers fn for event on target; unmount removes it again.
func (p *page) on(target js.Value, event string, fn func(ev js.Value)) {
	if target.IsNull() || target.IsUndefined() {
		return
	}
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", event, f)
	p.listeners = append(p.listeners, listener{target: target, event: event, fn: f})
}

func (p *page) mount() {
	p.mountLoader()
	p.mountNavbar()
	p.mountReveals()
	p.mountCarousels()
	p.mountContact()
	p.log.Debug("page mounted", zap.Int("sections", len(p.reveals)))
}

func (p *page) unmount() {
	for _, r := range p.reveals {
		r.Unmount()
	}
	if p.loader != nil {
		p.loader.Stop()
	}
	if p.contact != nil {
		p.contact.Close()
	}
	for _, l := range p.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	p.listeners = nil
}

func (p *page) mountReveals() {
	roots := p.doc.Call("querySelectorAll", "[data-reveal-root]")
	for i := range roots.Length() {
		scope := sectionScope{root: roots.Index(i), registry: &p.registry}
		c := ui.NewRevealController(
			func(threshold float64, onChange func([]ui.Intersection[int])) ui.Observer[int] {
				return newDOMObserver(&p.registry, threshold, onChange)
			},
			func(id int) {
				classes := p.registry.get(id).Get("classList")
				classes.Call("add", "animate-fade-in")
				classes.Call("remove", "opacity-0")
			},
		)
		c.Mount(scope, ui.RevealSelector)
		p.reveals = append(p.reveals, c)
	}
}

func (p *page) mountLoader() {
	el := p.doc.Call("getElementById", "loader")
	if el.IsNull() {
		return
	}
	bar := p.doc.Call("getElementById", "loader-bar")
	p.loader = ui.NewLoader(ui.LoaderConfig{
		MinDuration: time.Duration(dataInt(el, "minLoadingMs")) * time.Millisecond,
		Frames:      animationFrames{},
		OnProgress: func(v float64) {
			if !bar.IsNull() {
				bar.Get("style").Set("width", fmt.Sprintf("%.1f%%", v*100))
			}
		},
		OnComplete: func() {
			el.Call("remove")
			p.log.Debug("loading screen done")
		},
	})
	p.loader.Start()
}

func (p *page) mountNavbar() {
	nav := p.doc.Call("getElementById", "navbar")
	if nav.IsNull() {
		return
	}
	menu := p.doc.Call("getElementById", "mobile-menu")
	toggle := p.doc.Call("getElementById", "menu-toggle")
	p.navbar = ui.NewNavbar(smoothScroller{doc: p.doc}, func(s ui.NavState) {
		nav.Get("classList").Call("toggle", "scrolled", s.Scrolled)
		setHidden(menu, !s.MenuOpen)
		if !toggle.IsNull() {
			toggle.Call("setAttribute", "aria-expanded", fmt.Sprint(s.MenuOpen))
		}
	})

	window := js.Global()
	p.navbar.SetScrollOffset(window.Get("scrollY").Float())
	p.on(window, "scroll", func(js.Value) {
		p.navbar.SetScrollOffset(window.Get("scrollY").Float())
	})
	p.on(toggle, "click", func(js.Value) { p.navbar.ToggleMenu() })

	targets := p.doc.Call("querySelectorAll", "[data-nav-target]")
	for i := range targets.Length() {
		link := targets.Index(i)
		id := link.Get("dataset").Get("navTarget").String()
		p.on(link, "click", func(ev js.Value) {
			if p.navbar.Navigate(id) {
				ev.Call("preventDefault")
			}
		})
	}
}

func (p *page) mountCarousels() {
	carousels := p.doc.Call("querySelectorAll", "[data-carousel]")
	for i := range carousels.Length() {
		root := carousels.Index(i)
		track := root.Call("querySelector", "[data-carousel-track]")
		if track.IsNull() {
			continue
		}
		items := track.Get("children")
		c := &ui.Carousel{Len: items.Length(), Loop: root.Get("dataset").Get("loop").String() == "true"}
		show := func(idx int) {
			track.Call("scrollTo", map[string]any{
				"left":     items.Index(idx).Get("offsetLeft").Float(),
				"behavior": "smooth",
			})
		}
		p.on(root.Call("querySelector", "[data-carousel-prev]"), "click", func(js.Value) {
			if c.Len > 0 {
				show(c.Previous())
			}
		})
		p.on(root.Call("querySelector", "[data-carousel-next]"), "click", func(js.Value) {
			if c.Len > 0 {
				show(c.Next())
			}
		})
	}
}
