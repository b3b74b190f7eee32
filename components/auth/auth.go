// components/auth/auth.go
//
// Admin sign-in and sign-out.
//
// Workflow
// --------
//  1. GET /login renders the YAML form auth/login; ?next= is carried in the
//     form action.
//  2. POST /login validates the form, then Authenticator.Login checks the
//     credentials.  Unknown email and wrong password share one message and
//     one status, and neither sets a cookie.
//  3. On success the session cookie is issued and the browser is sent to
//     next (local paths only) or the home page.
//
// POST /api/login is the JSON twin for API clients; it returns the token
// in the body as well as the cookie.

//------------------------------------------------------------------------------

package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/api"
	authn "github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/i18n"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/metrics"
	"github.com/yanizio/agrocms/internal/site"
)

// FormID is the YAML login form.
const FormID = "auth/login"

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates login functionality.
type Component struct{ d *component.Deps }

// New returns the auth component.
func New(d *component.Deps) *Component { return &Component{d: d} }

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Routes registers the session endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/login", c.handleLoginGET)
	r.Post("/login", c.handleLoginPOST)
	r.Post("/logout", c.handleLogout)
	r.Post("/api/login", c.handleAPILogin)
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// LoginData backs the login page.
type LoginData struct {
	Action string
	Form   form.State
}

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	c.render(w, c.d.Site.New(r), http.StatusOK, form.State{})
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)

	sub, err := c.d.Forms.HandleSubmit(FormID, w, r)
	if err != nil {
		if form.IsValidationError(err) {
			metrics.FormSubmissions.WithLabelValues(FormID, "invalid").Inc()
			c.render(w, rctx, http.StatusUnprocessableEntity, c.d.Forms.StateFrom(FormID, r, err))
			return
		}
		c.d.View.Error(w, rctx, err)
		return
	}

	adm, err := c.d.Auth.Login(r.Context(), sub.String("email"), sub.String("password"))
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			st := c.d.Forms.StateFrom(FormID, r, nil)
			st.Errors[""] = form.ErrorField{
				Message:   i18n.T(i18n.English, "login.failed"),
				MessageAr: i18n.T(i18n.Arabic, "login.failed"),
			}
			c.render(w, rctx, http.StatusUnauthorized, st)
			return
		}
		c.d.View.Error(w, rctx, err)
		return
	}

	if _, err := c.d.Sessions.Issue(w, adm.Principal()); err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}
	logger.FromContext(r.Context()).Infow("admin signed in", "admin", adm.ID, "role", adm.Role)
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	c.d.Sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// credentials is the JSON login body.
type credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the token for clients that cannot keep cookies.
type loginResponse struct {
	Token string       `json:"token"`
	Admin *authn.Admin `json:"admin"`
}

func (c *Component) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	adm, err := c.d.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		api.Error(w, r, err)
		return
	}
	tok, err := c.d.Sessions.Issue(w, adm.Principal())
	if err != nil {
		api.Error(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	api.WriteJSON(w, r, http.StatusOK, loginResponse{Token: tok, Admin: adm})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func (c *Component) render(w http.ResponseWriter, rctx *site.Context, status int, st form.State) {
	action := "/login"
	if next := rctx.Request.URL.Query().Get("next"); next != "" {
		action += "?next=" + url.QueryEscape(safeNext(next))
	}
	rctx.Data = LoginData{Action: action, Form: st}
	rctx.Head.SetTitle(rctx.T("login.title"))
	rctx.Head.Meta(`<meta name="robots" content="noindex, nofollow">`)
	if err := c.d.View.Render(w, rctx, status, "login"); err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

// safeNext keeps redirects on this site: a single leading slash and no
// scheme or host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
