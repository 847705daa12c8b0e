// Package uistate coordinates the storefront overlays. At most one of the
// cart drawer, the search panel and the mobile menu is open at a time.
package uistate

import "sync"

// MobileBreakpoint is the viewport width below which the layout is mobile.
const MobileBreakpoint = 768

type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayCart
	OverlaySearch
	OverlayMobileMenu
)

func (o Overlay) String() string {
	switch o {
	case OverlayCart:
		return "cart"
	case OverlaySearch:
		return "search"
	case OverlayMobileMenu:
		return "mobile_menu"
	}
	return "none"
}

// State is a snapshot of the coordinator.
type State struct {
	CartOpen       bool `json:"isCartOpen"`
	SearchOpen     bool `json:"isSearchOpen"`
	MobileMenuOpen bool `json:"isMobileMenuOpen"`
	IsMobile       bool `json:"isMobile"`
}

type Coordinator struct {
	mu       sync.Mutex
	active   Overlay
	isMobile bool
}

// New starts with everything closed, sized for the given viewport width.
func New(width int) *Coordinator {
	return &Coordinator{isMobile: width < MobileBreakpoint}
}

func (c *Coordinator) OpenCart()       { c.open(OverlayCart) }
func (c *Coordinator) CloseCart()      { c.close(OverlayCart) }
func (c *Coordinator) OpenSearch()     { c.open(OverlaySearch) }
func (c *Coordinator) CloseSearch()    { c.close(OverlaySearch) }
func (c *Coordinator) OpenMobileMenu() { c.open(OverlayMobileMenu) }

func (c *Coordinator) CloseMobileMenu() { c.close(OverlayMobileMenu) }

// Toggle closes o when it is open, otherwise opens it.
func (c *Coordinator) Toggle(o Overlay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == o {
		c.active = OverlayNone
		return
	}
	c.active = o
}

func (c *Coordinator) Active() Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Resize recomputes the mobile flag. Open overlays stay open.
func (c *Coordinator) Resize(width int) {
	c.mu.Lock()
	c.isMobile = width < MobileBreakpoint
	c.mu.Unlock()
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		CartOpen:       c.active == OverlayCart,
		SearchOpen:     c.active == OverlaySearch,
		MobileMenuOpen: c.active == OverlayMobileMenu,
		IsMobile:       c.isMobile,
	}
}

func (c *Coordinator) open(o Overlay) {
	c.mu.Lock()
	c.active = o
	c.mu.Unlock()
}

// close only affects o, so closing an overlay that is not open does nothing.
func (c *Coordinator) close(o Overlay) {
	c.mu.Lock()
	if c.active == o {
		c.active = OverlayNone
	}
	c.mu.Unlock()
}
