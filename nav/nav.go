// Package nav mirrors session state into a navigation backend: the current
// path, query string, and fragment of the host application. Replace never
// adds a history entry; it rewrites the current one.
package nav

import (
	"net/url"
	"sync"
)

// Location is a point in the navigation space.
type Location struct {
	Path     string
	Query    url.Values
	Fragment string
}

// Clone deep-copies the location so callers can mutate the query safely.
func (l Location) Clone() Location {
	q := make(url.Values, len(l.Query))
	for k, vs := range l.Query {
		q[k] = append([]string(nil), vs...)
	}
	return Location{Path: l.Path, Query: q, Fragment: l.Fragment}
}

// String renders the location as path?query#fragment.
func (l Location) String() string {
	s := l.Path
	if enc := l.Query.Encode(); enc != "" {
		s += "?" + enc
	}
	if l.Fragment != "" {
		s += "#" + l.Fragment
	}
	return s
}

// Backend is the navigation boundary the host application implements.
type Backend interface {
	// Location returns the current location.
	Location() Location
	// Replace rewrites the current location without adding a history entry.
	Replace(Location) error
}

// MemoryBackend is an in-process Backend for tests and embedded use.
type MemoryBackend struct {
	mu  sync.Mutex
	loc Location
}

func NewMemoryBackend(loc Location) *MemoryBackend {
	if loc.Query == nil {
		loc.Query = url.Values{}
	}
	return &MemoryBackend{loc: loc}
}

func (b *MemoryBackend) Location() Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loc.Clone()
}

func (b *MemoryBackend) Replace(loc Location) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if loc.Query == nil {
		loc.Query = url.Values{}
	}
	b.loc = loc.Clone()
	return nil
}
