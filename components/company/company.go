// components/company/company.go
//
// Company profile, offices, and downloadable documents.
//
// Context
// -------
// Public JSON feeds the header, footer, and contact map; documents are
// served as attachments and counted once per full GET.  Admin routes edit
// the company singleton, the offices, and the document records.
//
// Notes
// -----
// • Deleting a document removes its file from the upload store.
// • A document whose file has vanished answers 404, not 500.

package company

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/upload"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the company endpoints.
type Component struct{ d *component.Deps }

// New returns the company component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "company" }

// Routes registers the public endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/api/company", c.profile)
	r.Get("/api/headquarters", component.ListJSON(c.d.Content.Headquarters))
	r.Get("/api/documents", component.ListJSON(c.d.Content.Documents))
	r.Get("/documents/{slug}/download", c.download)
	r.Head("/documents/{slug}/download", c.download)
}

// AdminRoutes registers profile, office, and document management.
func (c *Component) AdminRoutes(r chi.Router) {
	svc := c.d.Content

	read := acl.RequirePermission(acl.AreaCompany, acl.ActionRead)
	write := acl.RequirePermission(acl.AreaCompany, acl.ActionWrite)
	r.With(read).Get("/company", c.profile)
	r.With(write).Put("/company", c.updateProfile)

	component.Resource[content.Headquarter, content.HeadquarterInput]{
		Area:   acl.AreaCompany,
		List:   func(r *http.Request) ([]content.Headquarter, error) { return svc.Headquarters(r.Context()) },
		Get:    svc.Headquarter,
		Create: svc.CreateHeadquarter,
		Update: svc.UpdateHeadquarter,
		Delete: svc.DeleteHeadquarter,
	}.Mount(r, "/headquarters")

	component.Resource[content.Document, content.DocumentInput]{
		Area:   acl.AreaDocuments,
		List:   func(r *http.Request) ([]content.Document, error) { return svc.Documents(r.Context()) },
		Get:    svc.Document,
		Create: svc.CreateDocument,
		Update: svc.UpdateDocument,
		Delete: c.deleteDocument,
	}.Mount(r, "/documents")
}

func (c *Component) profile(w http.ResponseWriter, r *http.Request) {
	co, err := c.d.Content.Company(r.Context())
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, co)
}

func (c *Component) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in content.CompanyInput
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	co, err := c.d.Content.UpdateCompany(r.Context(), in)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, co)
}

func (c *Component) deleteDocument(ctx context.Context, id uint64) error {
	file, err := c.d.Content.DeleteDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := c.d.Uploads.Remove(file); err != nil {
		logger.FromContext(ctx).Warnw("document file cleanup failed", "path", file, "err", err)
	}
	return nil
}

// download streams one document.  Only a full GET counts: HEAD, Range,
// and conditional requests are served without touching the counter.
func (c *Component) download(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	doc, err := c.d.Content.DocumentBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}
	f, err := c.d.Uploads.Open(doc.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, upload.ErrPath) {
			logger.FromContext(r.Context()).Warnw("document file missing", "slug", doc.Slug, "path", doc.FilePath)
			err = content.ErrNotFound
		}
		c.d.View.Error(w, rctx, err)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}

	if fullDownload(r) {
		if err := c.d.Content.CountDownload(r.Context(), doc.ID); err != nil {
			logger.FromContext(r.Context()).Warnw("download not counted", "slug", doc.Slug, "err", err)
		}
	}

	name := doc.Slug + path.Ext(doc.FilePath)
	if doc.ContentType != "" {
		w.Header().Set("Content-Type", doc.ContentType)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Cache-Control", "private, no-cache")
	http.ServeContent(w, r, name, st.ModTime(), f)
}

func fullDownload(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	for _, h := range []string{"Range", "If-None-Match", "If-Modified-Since"} {
		if r.Header.Get(h) != "" {
			return false
		}
	}
	return true
}
