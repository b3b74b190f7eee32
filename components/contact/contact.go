// components/contact/contact.go
//
// Contact page, its form, and the admin inbox.
//
// Workflow (POST /contact)
// ------------------------
//  1. form.HandleSubmit validates against contact/message (CSRF, timing,
//     field rules).
//  2. The submission is stored with what requestinfo knows about the
//     sender (IP, country, user agent).
//  3. YAML actions run (office notification) and the thank-you page
//     renders.
//
// Admin
// -----
//   GET    /contacts              ?unread=1 for the unread inbox
//   GET    /contacts/export.xlsx  spreadsheet download
//   PUT    /contacts/{id}/read
//   DELETE /contacts/{id}

package contact

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/metrics"
	"github.com/yanizio/agrocms/internal/requestinfo"
	"github.com/yanizio/agrocms/internal/site"
)

// FormID is the YAML form behind /contact.
const FormID = "contact/message"

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the contact page.
type Component struct{ d *component.Deps }

// New returns the contact component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Routes registers the public page.
func (c *Component) Routes(r chi.Router) {
	r.Get("/contact", c.show)
	r.Post("/contact", c.submit)
}

// AdminRoutes registers the inbox.
func (c *Component) AdminRoutes(r chi.Router) {
	read := acl.RequirePermission(acl.AreaContacts, acl.ActionRead)
	write := acl.RequirePermission(acl.AreaContacts, acl.ActionWrite)
	r.Route("/contacts", func(r chi.Router) {
		r.With(read).Get("/", c.list)
		r.With(read).Get("/export.xlsx", c.export)
		r.With(write).Put("/{id}/read", c.markRead)
		r.With(write).Delete("/{id}", c.remove)
	})
}

// Data backs contact/index.
type Data struct {
	Offices []content.Headquarter
	Form    form.State
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	err := c.d.View.Page(w, rctx, "contact/index", func(ctx context.Context) (any, error) {
		return c.data(ctx, rctx, form.State{})
	}, content.TagHeadquarters)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) data(ctx context.Context, rctx *site.Context, st form.State) (Data, error) {
	offices, err := c.d.Content.Headquarters(ctx)
	if err != nil {
		return Data{}, err
	}
	rctx.Head.SetTitle(rctx.T("contact.title"))
	return Data{Offices: offices, Form: st}, nil
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)

	sub, err := c.d.Forms.HandleSubmit(FormID, w, r)
	if err != nil {
		if !form.IsValidationError(err) {
			c.d.View.Error(w, rctx, err)
			return
		}
		metrics.FormSubmissions.WithLabelValues(FormID, "invalid").Inc()
		data, derr := c.data(r.Context(), rctx, c.d.Forms.StateFrom(FormID, r, err))
		if derr != nil {
			c.d.View.Error(w, rctx, derr)
			return
		}
		rctx.Data = data
		if rerr := c.d.View.Render(w, rctx, http.StatusUnprocessableEntity, "contact/index"); rerr != nil {
			c.d.View.Error(w, rctx, rerr)
		}
		return
	}

	var in content.ContactInput
	if err := sub.Bind(&in); err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}
	id, err := c.d.Content.CreateContact(r.Context(), in, meta(r))
	if err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}

	metrics.FormSubmissions.WithLabelValues(FormID, "ok").Inc()
	logger.FromContext(r.Context()).Infow("contact received", "contact", id)
	c.d.Forms.ExecuteActions(r.Context(), sub, map[string]any{"contact_id": id})

	rctx.Head.SetTitle(rctx.T("contact.title"))
	rctx.Data = id
	if err := c.d.View.Render(w, rctx, http.StatusOK, "contact/thanks"); err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

// meta collects sender details; without the enrich middleware the
// connection address is used.
func meta(r *http.Request) content.ContactMeta {
	ri := requestinfo.FromContext(r.Context())
	if ri == nil {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		return content.ContactMeta{IP: host, UserAgent: r.UserAgent()}
	}
	return content.ContactMeta{IP: ri.IP(), Country: ri.Geo.CountryISO, UserAgent: ri.UA.Raw}
}

/*──────────────────────────── admin ────────────────────────────────────*/

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	out, err := c.d.Content.Contacts(r.Context(), r.URL.Query().Get("unread") == "1")
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if out == nil {
		out = []content.Contact{}
	}
	api.WriteJSON(w, r, http.StatusOK, out)
}

func (c *Component) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	var in content.ReadInput
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	if err := c.d.Content.MarkContactRead(r.Context(), id, in.Read); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (c *Component) remove(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if err := c.d.Content.DeleteContact(r.Context(), id); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}
