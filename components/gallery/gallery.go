// components/gallery/gallery.go
//
// Certificates and awards.  The public side is JSON for the home page
// sliders; the admin side is plain CRUD.
package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the gallery endpoints.
type Component struct{ d *component.Deps }

// New returns the gallery component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "gallery" }

// Routes registers the public JSON lists.
func (c *Component) Routes(r chi.Router) {
	r.Get("/api/certificates", component.ListJSON(c.d.Content.Certificates))
	r.Get("/api/awards", component.ListJSON(c.d.Content.Awards))
}

// AdminRoutes registers certificate and award CRUD.
func (c *Component) AdminRoutes(r chi.Router) {
	svc := c.d.Content
	component.Resource[content.Certificate, content.CertificateInput]{
		Area:   acl.AreaGallery,
		List:   func(r *http.Request) ([]content.Certificate, error) { return svc.Certificates(r.Context()) },
		Get:    svc.Certificate,
		Create: svc.CreateCertificate,
		Update: svc.UpdateCertificate,
		Delete: svc.DeleteCertificate,
	}.Mount(r, "/certificates")

	component.Resource[content.Award, content.AwardInput]{
		Area:   acl.AreaGallery,
		List:   func(r *http.Request) ([]content.Award, error) { return svc.Awards(r.Context()) },
		Get:    svc.Award,
		Create: svc.CreateAward,
		Update: svc.UpdateAward,
		Delete: svc.DeleteAward,
	}.Mount(r, "/awards")
}
