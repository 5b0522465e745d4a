package ui

import "sync"

// ScrollThreshold is the offset in pixels past which the navbar turns solid.
const ScrollThreshold = 10

// NavItem is one in-page navigation entry.
type NavItem struct {
	Name string
	ID   string
}

// NavItems are the navbar entries in page order.
var NavItems = []NavItem{
	{Name: "Home", ID: "hero"},
	{Name: "About", ID: "about"},
	{Name: "Education", ID: "education"},
	{Name: "Projects", ID: "projects"},
	{Name: "Skills", ID: "skills"},
	{Name: "Contact", ID: "contact"},
}

// Scroller smooth-scrolls the viewport to the element with the given id.
// It reports false when no such element exists.
type Scroller interface {
	ScrollTo(id string) bool
}

// NavState is a snapshot handed to Navbar.OnChange.
type NavState struct {
	Scrolled bool
	MenuOpen bool
}

// Navbar tracks the sticky navigation bar. OnChange runs with the navbar
// locked, only when the state actually changed.
type Navbar struct {
	scroller Scroller
	onChange func(NavState)

	mu    sync.Mutex
	state NavState
}

func NewNavbar(scroller Scroller, onChange func(NavState)) *Navbar {
	return &Navbar{scroller: scroller, onChange: onChange}
}

func (n *Navbar) State() NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// SetScrollOffset records the page's vertical scroll offset.
func (n *Navbar) SetScrollOffset(y float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.set(NavState{Scrolled: y > ScrollThreshold, MenuOpen: n.state.MenuOpen})
}

// ToggleMenu opens or closes the mobile menu.
func (n *Navbar) ToggleMenu() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.set(NavState{Scrolled: n.state.Scrolled, MenuOpen: !n.state.MenuOpen})
}

// Navigate scrolls to the section with the given id and closes the mobile
// menu. Unknown ids change nothing.
func (n *Navbar) Navigate(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.scroller.ScrollTo(id) {
		return false
	}
	n.set(NavState{Scrolled: n.state.Scrolled})
	return true
}

func (n *Navbar) set(s NavState) {
	if s == n.state {
		return
	}
	n.state = s
	if n.onChange != nil {
		n.onChange(s)
	}
}
