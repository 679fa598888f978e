// SPDX-License-Identifier: GPL-3.0-or-later

// Package sites holds the branch sites the cooperator solves alternate paths for.
package sites

import (
	"fmt"
	"sync"
)

// Tolerance is the size of the forward window in which a program counter
// is attributed to a site.
const Tolerance = 0x10

// Site is a program location of interest.
type Site struct {
	Address uint64
	ID      uint32

	visited bool
}

func (s Site) Visited() bool { return s.visited }

func (s Site) String() string {
	return fmt.Sprintf("%x %d", s.Address, s.ID)
}

// Covers reports whether pc lies in the site's forward tolerance window.
func (s Site) Covers(pc uint64) bool {
	return pc >= s.Address && pc-s.Address < Tolerance
}

// Registry is an ordered set of sites keyed by address.
// Membership is fixed at construction; only the visited flag changes.
type Registry struct {
	mu    sync.Mutex
	sites []*Site
}

// NewRegistry builds a registry from sites in order.
// A site whose address is already registered is skipped and reported.
func NewRegistry(sites ...Site) (*Registry, []error) {
	r := &Registry{}
	seen := make(map[uint64]bool, len(sites))

	var errs []error
	for _, s := range sites {
		if seen[s.Address] {
			errs = append(errs, fmt.Errorf("duplicate site address %x (id %d)", s.Address, s.ID))
			continue
		}
		seen[s.Address] = true
		r.sites = append(r.sites, &Site{Address: s.Address, ID: s.ID})
	}

	return r, errs
}

func (r *Registry) Len() int {
	return len(r.sites)
}

// Lookup returns the first site, in registration order, whose window covers pc.
func (r *Registry) Lookup(pc uint64) *Site {
	for _, s := range r.sites {
		if s.Covers(pc) {
			return s
		}
	}
	return nil
}

// MarkVisited marks s visited and reports whether it was unvisited before.
func (r *Registry) MarkVisited(s *Site) bool {
	if s == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s.visited {
		return false
	}
	s.visited = true
	return true
}

// Sites returns a snapshot of all sites in registration order.
func (r *Registry) Sites() []Site {
	return r.filter(func(Site) bool { return true })
}

func (r *Registry) Visited() []Site {
	return r.filter(Site.Visited)
}

func (r *Registry) Unvisited() []Site {
	return r.filter(func(s Site) bool { return !s.Visited() })
}

func (r *Registry) filter(keep func(Site) bool) []Site {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Site
	for _, s := range r.sites {
		if keep(*s) {
			out = append(out, *s)
		}
	}
	return out
}
