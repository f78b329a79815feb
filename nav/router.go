package nav

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a route name can be from the requested
// one before no suggestion is offered.
const maxSuggestDistance = 3

// UnknownRouteError reports a Go call with an unregistered route name,
// carrying the closest registered name when one is plausible.
type UnknownRouteError struct {
	Name       string
	Suggestion string
}

func (e *UnknownRouteError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("nav: unknown route %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("nav: unknown route %q", e.Name)
}

// Router resolves registered route names to paths on a Backend.
type Router struct {
	backend Backend
	routes  map[string]string
}

func NewRouter(backend Backend) *Router {
	return &Router{backend: backend, routes: make(map[string]string)}
}

// Register maps a route name to a path. Re-registering replaces the path.
func (r *Router) Register(name, path string) {
	r.routes[name] = path
}

// Routes returns the registered route names, sorted.
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Go replaces the current location with the named route's path and the given
// query parameters. The fragment is cleared.
func (r *Router) Go(name string, params url.Values) error {
	path, ok := r.routes[name]
	if !ok {
		return &UnknownRouteError{Name: name, Suggestion: r.closest(name)}
	}
	if params == nil {
		params = url.Values{}
	}
	return r.backend.Replace(Location{Path: path, Query: params})
}

func (r *Router) closest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range r.Routes() {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}
