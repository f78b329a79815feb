package nav

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
)

func intQueryConfig() QueryStateConfig[int] {
	return QueryStateConfig[int]{
		Decode: strconv.Atoi,
		Encode: strconv.Itoa,
	}
}

func TestQueryStateRoundTrip(t *testing.T) {
	t.Parallel()
	b := NewMemoryBackend(Location{Path: "/list"})
	q := NewQueryState(b, "page", 1, intQueryConfig())

	if got := q.Get(); got != 1 {
		t.Fatalf("absent param = %d, want initial", got)
	}
	if err := q.Set(4); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := q.Get(); got != 4 {
		t.Fatalf("get = %d, want 4", got)
	}
	if got := b.Location().String(); got != "/list?page=4" {
		t.Fatalf("location = %q", got)
	}
}

func TestQueryStateDecodeFailureFallsBack(t *testing.T) {
	t.Parallel()
	b := NewMemoryBackend(Location{
		Path:  "/list",
		Query: url.Values{"page": []string{"banana"}},
	})
	q := NewQueryState(b, "page", 1, intQueryConfig())

	if got := q.Get(); got != 1 {
		t.Fatalf("undecodable param must fall back to initial, got %d", got)
	}
}

func TestQueryStateUnset(t *testing.T) {
	t.Parallel()
	b := NewMemoryBackend(Location{Path: "/list"})
	q := NewQueryState(b, "page", 1, intQueryConfig())

	if err := q.Set(9); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := q.Unset(); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if got := q.Get(); got != 1 {
		t.Fatalf("after unset = %d, want initial", got)
	}
}

func TestQueryStatePreservesOtherParams(t *testing.T) {
	t.Parallel()
	b := NewMemoryBackend(Location{
		Path:  "/list",
		Query: url.Values{"sort": []string{"name"}},
	})
	q := NewQueryState(b, "page", 1, intQueryConfig())
	if err := q.Set(2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := b.Location().Query.Get("sort"); got != "name" {
		t.Fatalf("sibling param lost, sort = %q", got)
	}
}

func TestRouterGo(t *testing.T) {
	t.Parallel()
	b := NewMemoryBackend(Location{Path: "/", Fragment: "top"})
	r := NewRouter(b)
	r.Register("settings", "/settings")
	r.Register("transactions", "/transactions")

	if err := r.Go("settings", url.Values{"tab": []string{"theme"}}); err != nil {
		t.Fatalf("go: %v", err)
	}
	loc := b.Location()
	if loc.Path != "/settings" || loc.Query.Get("tab") != "theme" {
		t.Fatalf("location = %q", loc.String())
	}
	if loc.Fragment != "" {
		t.Fatalf("go must clear the fragment")
	}
}

func TestRouterUnknownSuggestsClosest(t *testing.T) {
	t.Parallel()
	r := NewRouter(NewMemoryBackend(Location{}))
	r.Register("settings", "/settings")
	r.Register("dashboard", "/dashboard")

	err := r.Go("setings", nil)
	var unknown *UnknownRouteError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownRouteError", err)
	}
	if unknown.Suggestion != "settings" {
		t.Fatalf("suggestion = %q, want settings", unknown.Suggestion)
	}
}

func TestRouterUnknownFarNameNoSuggestion(t *testing.T) {
	t.Parallel()
	r := NewRouter(NewMemoryBackend(Location{}))
	r.Register("settings", "/settings")

	err := r.Go("zzzzzzzzzzzz", nil)
	var unknown *UnknownRouteError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownRouteError", err)
	}
	if unknown.Suggestion != "" {
		t.Fatalf("implausible name must not suggest, got %q", unknown.Suggestion)
	}
}
