//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"

	"github.com/DilshanHF/portfolio/ui"
)

// listener is an event handler registered on a DOM target.
type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

// elementRegistry hands out integer ids for DOM nodes so they can be used as
// map keys; js.Value is not comparable.
type elementRegistry struct {
	nodes []js.Value
}

const revealIDKey = "revealId"

func (r *elementRegistry) add(el js.Value) int {
	id := len(r.nodes)
	r.nodes = append(r.nodes, el)
	el.Get("dataset").Set(revealIDKey, strconv.Itoa(id))
	return id
}

func (r *elementRegistry) lookup(el js.Value) (int, bool) {
	v := el.Get("dataset").Get(revealIDKey)
	if v.IsUndefined() {
		return 0, false
	}
	id, err := strconv.Atoi(v.String())
	if err != nil || id < 0 || id >= len(r.nodes) {
		return 0, false
	}
	return id, true
}

func (r *elementRegistry) get(id int) js.Value { return r.nodes[id] }

// sectionScope queries revealable elements below one section root.
type sectionScope struct {
	root     js.Value
	registry *elementRegistry
}

func (s sectionScope) QueryAll(selector string) []int {
	nodes := s.root.Call("querySelectorAll", selector)
	ids := make([]int, 0, nodes.Length())
	for i := range nodes.Length() {
		ids = append(ids, s.registry.add(nodes.Index(i)))
	}
	return ids
}

// domObserver wraps a browser IntersectionObserver.
type domObserver struct {
	obs      js.Value
	cb       js.Func
	registry *elementRegistry
}

func newDOMObserver(registry *elementRegistry, threshold float64, onChange func([]ui.Intersection[int])) *domObserver {
	o := &domObserver{registry: registry}
	o.cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		changes := make([]ui.Intersection[int], 0, entries.Length())
		for i := range entries.Length() {
			entry := entries.Index(i)
			id, ok := registry.lookup(entry.Get("target"))
			if !ok {
				continue
			}
			changes = append(changes, ui.Intersection[int]{
				Target:       id,
				Intersecting: entry.Get("isIntersecting").Bool(),
			})
		}
		onChange(changes)
		return nil
	})
	o.obs = js.Global().Get("IntersectionObserver").New(o.cb, map[string]any{"threshold": threshold})
	return o
}

func (o *domObserver) Observe(id int)   { o.obs.Call("observe", o.registry.get(id)) }
func (o *domObserver) Unobserve(id int) { o.obs.Call("unobserve", o.registry.get(id)) }

func (o *domObserver) Disconnect() {
	o.obs.Call("disconnect")
	o.cb.Release()
}

// animationFrames schedules loader ticks with requestAnimationFrame.
type animationFrames struct{}

func (animationFrames) RequestFrame(f func()) func() {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		f()
		return nil
	})
	id := js.Global().Call("requestAnimationFrame", cb)
	return func() {
		js.Global().Call("cancelAnimationFrame", id)
		cb.Release()
	}
}

// smoothScroller scrolls the window to an element by id.
type smoothScroller struct {
	doc js.Value
}

func (s smoothScroller) ScrollTo(id string) bool {
	el := s.doc.Call("getElementById", id)
	if el.IsNull() {
		return false
	}
	el.Call("scrollIntoView", map[string]any{"behavior": "smooth"})
	return true
}

func dataInt(el js.Value, key string) int {
	v := el.Get("dataset").Get(key)
	if v.IsUndefined() {
		return 0
	}
	n, _ := strconv.Atoi(v.String())
	return n
}

func setHidden(el js.Value, hidden bool) {
	if !el.IsNull() {
		el.Set("hidden", hidden)
	}
}
