// components/uploads/uploads.go
//
// Serving and receiving uploaded files.
//
//	GET  /uploads/*          public read, long-lived cache headers
//	POST /api/admin/uploads  multipart "file" plus optional "kind"
//
// Stored names carry a random suffix, so a path never changes content and
// may be cached for a long time.
package uploads

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/upload"
)

// multipartSlack covers the multipart envelope around the file body.
const multipartSlack = 1 << 20

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the upload endpoints.
type Component struct{ d *component.Deps }

// New returns the uploads component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "uploads" }

// Routes registers the public file route.
func (c *Component) Routes(r chi.Router) {
	r.Get("/uploads/*", c.serve)
}

// AdminRoutes registers the upload endpoint.
func (c *Component) AdminRoutes(r chi.Router) {
	r.With(acl.RequirePermission(acl.AreaUploads, acl.ActionWrite)).Post("/uploads", c.receive)
}

func (c *Component) serve(w http.ResponseWriter, r *http.Request) {
	f, err := c.d.Uploads.Open(chi.URLParam(r, "*"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, upload.ErrPath) {
			http.NotFound(w, r)
			return
		}
		logger.FromContext(r.Context()).Errorw("upload open", "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}

func (c *Component) receive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.d.Uploads.MaxBytes()+multipartSlack)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			api.Error(w, r, upload.ErrTooLarge)
			return
		}
		api.Error(w, r, &api.BadRequestError{Err: err})
		return
	}
	kind, err := upload.ParseKind(r.FormValue("kind"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		api.Error(w, r, &api.BadRequestError{Err: err})
		return
	}
	defer f.Close()

	saved, err := c.d.Uploads.Save(kind, fh.Filename, f)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Infow("file uploaded", "kind", kind, "path", saved.Path, "size", saved.Size)
	api.WriteJSON(w, r, http.StatusCreated, saved)
}
