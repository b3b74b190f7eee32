// internal/widget/registry.go
//
// Widget registry and lookup helpers.
//
// A **Widget** is a reusable view fragment rendered inside a page.
// Components register theirs when they mount (see components/*), forms
// register one widget per YAML definition.
//
// The key used for registration is `<component>/<widget>`, e.g.
// "catalog/menu", and must be returned by the widget’s `ID` method.
//
// Template authors embed a widget with:
//
//	{{ widget "blog/latest" (dict "limit" 3) }}
//
// Params are optional.  The view helper looks up the widget, invokes
// `Render`, and returns `template.HTML`.
package widget

import (
	"sort"
	"sync"
)

// Widget represents a view fragment that can be embedded inside any page
// template.  Render returns the generated HTML and a cache policy hint
// (the view.CachePolicy values).  rctx is the per-request *site.Context.
//
// Params may be nil.  Errors are returned, not written, so the caller
// decides how to surface them.  Render must be safe for concurrent use.
type Widget interface {
	ID() string
	Render(rctx any, params map[string]any) (html string, policy int, err error)
}

// Registry maps widget keys to implementations.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Widget
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{m: map[string]Widget{}} }

// Register adds w.  A duplicate key overwrites the earlier entry.
func (r *Registry) Register(w Widget) {
	r.mu.Lock()
	r.m[w.ID()] = w
	r.mu.Unlock()
}

// Lookup returns the widget or nil.
func (r *Registry) Lookup(key string) Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m[key]
}

// Keys returns the sorted registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Func adapts a function to Widget.
type Func struct {
	Key string
	Fn  func(rctx any, params map[string]any) (string, int, error)
}

// ID implements Widget.
func (f Func) ID() string { return f.Key }

// Render implements Widget.
func (f Func) Render(rctx any, params map[string]any) (string, int, error) {
	return f.Fn(rctx, params)
}
