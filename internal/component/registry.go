// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and exposes a
// New(*Deps) constructor.  cmd/web builds them in a fixed order, adds them
// to a Registry, and calls Mount once.  Mount wires every component's
// public routes on the root router and every AdminRouter's routes on the
// authenticated /api/admin group.

package component

import (
	"fmt"

	"github.com/go-chi/chi/v5"
)

// Component contract.  Routes registers page and public API endpoints on
// the shared root router, e.g.:
//
//	func (c *Blog) Routes(r chi.Router) {
//	    r.Get("/blog", c.list)
//	    r.Get("/blog/{slug}", c.show)
//	}
type Component interface {
	Name() string
	Routes(r chi.Router)
}

// AdminRouter is optional.  AdminRoutes receives a router that already
// requires a signed-in admin or editor; per-area permission checks are
// the component's job.
type AdminRouter interface {
	AdminRoutes(r chi.Router)
}

// Registry keeps components in registration order.
type Registry struct {
	list  []Component
	names map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{names: map[string]struct{}{}} }

// Register adds c.  A duplicate name is a programming error and panics.
func (g *Registry) Register(cs ...Component) {
	for _, c := range cs {
		if _, dup := g.names[c.Name()]; dup {
			panic(fmt.Sprintf("component: duplicate registration %q", c.Name()))
		}
		g.names[c.Name()] = struct{}{}
		g.list = append(g.list, c)
	}
}

// All returns every registered component in registration order.
func (g *Registry) All() []Component {
	out := make([]Component, len(g.list))
	copy(out, g.list)
	return out
}

// Mount wires public routes on r and admin routes on admin.
func (g *Registry) Mount(r, admin chi.Router) {
	for _, c := range g.list {
		c.Routes(r)
		if a, ok := c.(AdminRouter); ok && admin != nil {
			a.AdminRoutes(admin)
		}
	}
}
