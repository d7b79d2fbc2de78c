// Package view holds the page navigation and scroll reveal state machines
// for the public site. Both are plain in-memory state; rendering reads
// them, events drive them.
package view

import "sync"

// Pages tracks which site page is active. Exactly one page is active at
// all times.
type Pages struct {
	mu     sync.Mutex
	ids    []string
	active string
}

// NewPages creates the set with the first id active. It panics on an empty
// id list since a site without pages cannot render.
func NewPages(ids ...string) *Pages {
	if len(ids) == 0 {
		panic("view: at least one page id required")
	}
	return &Pages{ids: ids, active: ids[0]}
}

// Show activates the page with the given id and reports whether a switch
// happened. Unknown ids leave the current page active rather than blanking
// the site.
func (p *Pages) Show(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, known := range p.ids {
		if known == id {
			p.active = id
			return true
		}
	}
	return false
}

// Active returns the id of the active page.
func (p *Pages) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// IsActive reports whether the given page is the active one.
func (p *Pages) IsActive(id string) bool {
	return p.Active() == id
}

// IDs returns the known page ids in declaration order.
func (p *Pages) IDs() []string {
	ids := make([]string, len(p.ids))
	copy(ids, p.ids)
	return ids
}
