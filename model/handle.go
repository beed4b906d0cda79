package model

import (
	"sync/atomic"

	"github.com/tabnotation/notation"
)

// Handle publishes the current Tab to concurrent readers. A Tab is never
// modified after Parse returns; a new version replaces the old one
// atomically, and readers holding the old one keep it alive for as long as
// they need it.
type Handle struct {
	current atomic.Pointer[Tab]
}

// Load returns the published tab, or nil if nothing has been published.
func (h *Handle) Load() *Tab {
	return h.current.Load()
}

// Store publishes tab and returns the previously published one.
func (h *Handle) Store(tab *Tab) *Tab {
	return h.current.Swap(tab)
}

// Reload assembles doc and publishes the result. If the assembly fails, the
// previously published tab stays in place.
func (h *Handle) Reload(doc *notation.Tab, opts Options) (*Tab, error) {
	tab, err := Parse(doc, opts)
	if err != nil {
		return nil, err
	}
	h.current.Store(tab)
	return tab, nil
}
