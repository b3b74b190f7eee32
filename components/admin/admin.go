// components/admin/admin.go
//
// The admin JSON group and its own small endpoints.
//
// Context
// -------
// Mount builds the /api/admin router: it requires a signed-in admin or
// editor and marks every response no-store.  Each component's AdminRoutes
// is attached to that router, and the per-area permission checks live
// with the routes themselves.
//
//	GET /api/admin/me
//	GET /api/admin/dashboard
//	GET /api/admin/slugs/check?type=&slug=&exclude=

package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	authn "github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/component"
)

// Prefix is where the admin group is mounted.
const Prefix = "/api/admin"

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the admin-only endpoints.
type Component struct{ d *component.Deps }

// New returns the admin component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "admin" }

// Routes has no public endpoints.
func (c *Component) Routes(chi.Router) {}

// AdminRoutes registers the session, dashboard, and slug helpers.
func (c *Component) AdminRoutes(r chi.Router) {
	r.Get("/me", c.me)
	r.With(acl.RequirePermission(acl.AreaDashboard, acl.ActionRead)).Get("/dashboard", c.dashboard)
	r.Get("/slugs/check", c.checkSlug)
}

// Mount wires every registered component onto r, with admin routes under
// Prefix.
func Mount(r chi.Router, reg *component.Registry) {
	ar := chi.NewRouter()
	ar.Use(noStore, acl.RequireRole(authn.RoleAdmin, authn.RoleEditor))
	reg.Mount(r, ar)
	r.Mount(Prefix, ar)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (c *Component) me(w http.ResponseWriter, r *http.Request) {
	id, _ := authn.UserID(r.Context())
	adm, err := c.d.Admins.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, authn.ErrNoAdmin) {
			c.d.Sessions.Clear(w)
			api.Fail(w, http.StatusUnauthorized, "sign in required")
			return
		}
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, struct {
		*authn.Admin
		Areas []string `json:"areas"`
	}{adm, acl.Areas(adm.Role)})
}

func (c *Component) dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := c.d.Content.Stats(r.Context())
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, st)
}

type slugQuery struct {
	Type string `json:"type" validate:"required,oneof=categories products blog pages jobs documents"`
	Slug string `json:"slug" validate:"required,max=200"`
}

func (c *Component) checkSlug(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := slugQuery{Type: q.Get("type"), Slug: q.Get("slug")}
	if err := api.Validate(in); err != nil {
		api.Error(w, r, err)
		return
	}
	var exclude uint64
	if s := q.Get("exclude"); s != "" {
		id, err := api.IDParam(s)
		if err != nil {
			api.Error(w, r, &api.BadRequestError{Err: errors.New("exclude must be a positive id")})
			return
		}
		exclude = id
	}
	res, err := c.d.Content.CheckSlug(r.Context(), in.Type, in.Slug, exclude)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, res)
}
