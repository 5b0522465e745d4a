package ui

import "sync"

// RevealThreshold is the visible fraction at which an element is revealed.
const RevealThreshold = 0.1

// RevealSelector marks the elements a section hands to its controller.
const RevealSelector = ".animate-on-scroll"

// Intersection is one entry reported by an Observer callback.
type Intersection[E comparable] struct {
	Target       E
	Intersecting bool
}

// Observer is the viewport-intersection primitive.
type Observer[E comparable] interface {
	Observe(el E)
	Unobserve(el E)
	Disconnect()
}

// ObserverFunc builds an Observer that calls onChange with the entries whose
// visibility crossed threshold.
type ObserverFunc[E comparable] func(threshold float64, onChange func([]Intersection[E])) Observer[E]

// Scope resolves a selector to the elements below a section root.
type Scope[E comparable] interface {
	QueryAll(selector string) []E
}

type revealEntry struct {
	revealed bool
}

// RevealController reveals each watched element the first time it enters the
// viewport and stops watching it afterwards. One controller serves one section.
//
// The apply callback runs with the controller locked and must not call back
// into it.
type RevealController[E comparable] struct {
	newObserver ObserverFunc[E]
	apply       func(E)

	mu       sync.Mutex
	observer Observer[E]
	entries  map[E]*revealEntry
	mounted  bool
	gen      uint64
}

func NewRevealController[E comparable](newObserver ObserverFunc[E], apply func(E)) *RevealController[E] {
	return &RevealController[E]{
		newObserver: newObserver,
		apply:       apply,
		entries:     make(map[E]*revealEntry),
	}
}

// Mount starts watching every element in scope matching selector.
func (c *RevealController[E]) Mount(scope Scope[E], selector string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return
	}
	c.mounted = true
	c.gen++
	gen := c.gen
	c.observer = c.newObserver(RevealThreshold, func(changes []Intersection[E]) {
		c.handle(gen, changes)
	})
	for _, el := range scope.QueryAll(selector) {
		if _, ok := c.entries[el]; ok {
			continue
		}
		c.entries[el] = &revealEntry{}
		c.observer.Observe(el)
	}
}

func (c *RevealController[E]) handle(gen uint64, changes []Intersection[E]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted || gen != c.gen {
		return
	}
	for _, ch := range changes {
		if !ch.Intersecting {
			continue
		}
		entry, ok := c.entries[ch.Target]
		if !ok || entry.revealed {
			continue
		}
		entry.revealed = true
		c.apply(ch.Target)
		c.observer.Unobserve(ch.Target)
	}
}

// Unmount stops watching everything still hidden and forgets every entry, so
// a later Mount starts over. Later observer callbacks are ignored.
func (c *RevealController[E]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	for el, entry := range c.entries {
		if !entry.revealed {
			c.observer.Unobserve(el)
		}
	}
	c.observer.Disconnect()
	c.observer = nil
	clear(c.entries)
}

// Revealed reports whether el has been revealed.
func (c *RevealController[E]) Revealed(el E) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[el]
	return ok && entry.revealed
}

// Pending is the number of elements still being watched.
func (c *RevealController[E]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return 0
	}
	n := 0
	for _, entry := range c.entries {
		if !entry.revealed {
			n++
		}
	}
	return n
}
