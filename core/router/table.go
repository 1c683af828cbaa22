package router

import (
	"sync/atomic"

	"github.com/searchktools/mini-server/core/http"
)

// Table maps an exact (method, path) pair to a handler, with an optional
// default for everything else.
//
// All registration must happen before Seal. After that the table is only
// read, from any number of goroutines, without locking.
type Table struct {
	routes   map[string]map[string]http.Handler // method -> path -> handler
	fallback http.Handler
	sealed   atomic.Bool
}

// NewTable creates an empty routing table
func NewTable() *Table {
	return &Table{
		routes: make(map[string]map[string]http.Handler),
	}
}

// Register binds handler to method and path, replacing any previous binding
func (t *Table) Register(method, path string, handler http.Handler) {
	t.mustBeOpen()
	if method == "" {
		panic("method must not be empty")
	}
	if len(path) == 0 || path[0] != '/' {
		panic("path must begin with '/'")
	}
	if handler == nil {
		panic("handler must not be nil")
	}

	paths, ok := t.routes[method]
	if !ok {
		paths = make(map[string]http.Handler)
		t.routes[method] = paths
	}
	paths[path] = handler
}

// SetDefault sets the handler used when no exact route matches
func (t *Table) SetDefault(handler http.Handler) {
	t.mustBeOpen()
	t.fallback = handler
}

// Resolve finds the handler for method and path. Only exact matches count;
// otherwise the default handler is returned. ok is false when neither exists.
func (t *Table) Resolve(method, path string) (handler http.Handler, ok bool) {
	if h, found := t.routes[method][path]; found {
		return h, true
	}
	if t.fallback != nil {
		return t.fallback, true
	}
	return nil, false
}

// Has reports whether an exact route exists for method and path
func (t *Table) Has(method, path string) bool {
	_, ok := t.routes[method][path]
	return ok
}

// Seal freezes the table; later registration panics
func (t *Table) Seal() {
	t.sealed.Store(true)
}

// Sealed reports whether Seal has been called
func (t *Table) Sealed() bool {
	return t.sealed.Load()
}

// Len returns the number of registered routes, excluding the default
func (t *Table) Len() int {
	n := 0
	for _, paths := range t.routes {
		n += len(paths)
	}
	return n
}

// HasDefault reports whether a default handler is configured
func (t *Table) HasDefault() bool {
	return t.fallback != nil
}

func (t *Table) mustBeOpen() {
	if t.sealed.Load() {
		panic("routes must be registered before the server starts")
	}
}
