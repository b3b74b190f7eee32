// components/careers/careers.go
//
// Job offers and applications.
//
// Workflow (POST /careers/{slug}/apply)
// -------------------------------------
//  1. form.HandleSubmit validates the multipart body against careers/apply.
//  2. The CV is stored through upload.Store (cv allowlist, sniffed).
//  3. content.Apply inserts the row; a closed or unknown job removes the
//     stored CV again.
//  4. The form's YAML actions run (notification email) and the thank-you
//     page renders.
//
// Notes
// -----
// • Validation failures re-render the job page with 422 and the visitor's
//   input, minus the file.
// • Admin routes cover offers, applications, and status labels.

package careers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/i18n"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/metrics"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/upload"
)

// FormID is the YAML form used for applications.
const FormID = "careers/apply"

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements careers.
type Component struct{ d *component.Deps }

// New returns the careers component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "careers" }

// Routes registers the public pages.
func (c *Component) Routes(r chi.Router) {
	r.Get("/careers", c.list)
	r.Get("/careers/{slug}", c.show)
	r.Post("/careers/{slug}/apply", c.apply)
}

// AdminRoutes registers offers and applications.
func (c *Component) AdminRoutes(r chi.Router) {
	component.Resource[content.Job, content.JobInput]{
		Area:   acl.AreaJobs,
		List:   func(r *http.Request) ([]content.Job, error) { return c.d.Content.Jobs(r.Context()) },
		Get:    c.d.Content.Job,
		Create: c.d.Content.CreateJob,
		Update: c.d.Content.UpdateJob,
		Delete: func(ctx context.Context, id uint64) error {
			cvs, err := c.d.Content.DeleteJob(ctx, id)
			if err != nil {
				return err
			}
			c.removeFiles(ctx, cvs...)
			return nil
		},
	}.Mount(r, "/jobs")

	read := acl.RequirePermission(acl.AreaApplications, acl.ActionRead)
	write := acl.RequirePermission(acl.AreaApplications, acl.ActionWrite)
	r.Route("/applications", func(r chi.Router) {
		r.With(read).Get("/", c.applications)
		r.With(write).Put("/{id}/status", c.setStatus)
		r.With(write).Delete("/{id}", c.deleteApplication)
	})
}

/*──────────────────────────── pages ────────────────────────────────────*/

// JobData backs careers/job.
type JobData struct {
	Job  *content.Job
	Form form.State
}

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	err := c.d.View.Page(w, rctx, "careers/list", func(ctx context.Context) (any, error) {
		jobs, err := c.d.Content.OpenJobs(ctx)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.T("careers.title"))
		return jobs, nil
	}, content.TagJobs)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

// show embeds the application form, so the page is never stored.
func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	err := c.d.View.Page(w, rctx, "careers/job", func(ctx context.Context) (any, error) {
		job, err := c.d.Content.JobBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.Pick(job.Title, job.TitleAr))
		return JobData{Job: job}, nil
	}, content.TagJobs)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) apply(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	log := logger.FromContext(r.Context())

	sub, err := c.d.Forms.HandleSubmit(FormID, w, r)
	if err != nil {
		if form.IsValidationError(err) {
			metrics.FormSubmissions.WithLabelValues(FormID, "invalid").Inc()
			c.redisplay(w, rctx, slug, c.d.Forms.StateFrom(FormID, r, err), http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, upload.ErrTooLarge) {
			metrics.FormSubmissions.WithLabelValues(FormID, "invalid").Inc()
			st := c.d.Forms.StateFrom(FormID, r, nil)
			st.Errors["cv"] = cvError(err)
			c.redisplay(w, rctx, slug, st, http.StatusRequestEntityTooLarge)
			return
		}
		c.d.View.Error(w, rctx, err)
		return
	}

	var in content.ApplicationInput
	if err := sub.Bind(&in); err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}

	saved, err := c.saveCV(sub)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrType) {
			metrics.FormSubmissions.WithLabelValues(FormID, "invalid").Inc()
			st := c.d.Forms.StateFrom(FormID, r, nil)
			st.Errors["cv"] = cvError(err)
			c.redisplay(w, rctx, slug, st, http.StatusUnprocessableEntity)
			return
		}
		c.d.View.Error(w, rctx, err)
		return
	}

	app, err := c.d.Content.Apply(r.Context(), slug, in, saved.Path)
	if err != nil {
		c.removeFiles(r.Context(), saved.Path)
		if errors.Is(err, content.ErrJobClosed) {
			st := c.d.Forms.StateFrom(FormID, r, nil)
			st.Errors[""] = form.ErrorField{
				Message:   i18n.T(i18n.English, "careers.closed"),
				MessageAr: i18n.T(i18n.Arabic, "careers.closed"),
			}
			c.redisplay(w, rctx, slug, st, http.StatusConflict)
			return
		}
		c.d.View.Error(w, rctx, err)
		return
	}

	metrics.FormSubmissions.WithLabelValues(FormID, "ok").Inc()
	log.Infow("application received", "job", slug, "application", app.ID)
	c.d.Forms.ExecuteActions(r.Context(), sub, map[string]any{
		"job":            slug,
		"application_id": app.ID,
		"cv":             c.d.Config.App.BaseURL + saved.URL,
	})

	rctx.Data = app
	rctx.Head.SetTitle(rctx.T("careers.thanks"))
	if err := c.d.View.Render(w, rctx, http.StatusOK, "careers/thanks"); err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) saveCV(sub *form.Submission) (*upload.Saved, error) {
	fh := sub.Files["cv"]
	if fh == nil {
		return nil, upload.ErrType
	}
	if fh.Size > c.d.Uploads.MaxBytes() {
		return nil, upload.ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.d.Uploads.Save(upload.KindCV, fh.Filename, f)
}

func cvError(err error) form.ErrorField {
	if errors.Is(err, upload.ErrTooLarge) {
		return form.ErrorField{Name: "cv", Message: "The file is too large.", MessageAr: "حجم الملف كبير جدًا."}
	}
	return form.ErrorField{Name: "cv", Message: "Please upload a PDF or Word document.", MessageAr: "يرجى رفع ملف PDF أو Word."}
}

// redisplay renders the job page again with st; a job that vanished
// meanwhile is a 404.
func (c *Component) redisplay(w http.ResponseWriter, rctx *site.Context, slug string, st form.State, status int) {
	job, err := c.d.Content.JobBySlug(rctx.Ctx(), slug)
	if err != nil {
		c.d.View.Error(w, rctx, err)
		return
	}
	rctx.Data = JobData{Job: job, Form: st}
	rctx.Head.SetTitle(rctx.Pick(job.Title, job.TitleAr))
	if err := c.d.View.Render(w, rctx, status, "careers/job"); err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) removeFiles(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := c.d.Uploads.Remove(p); err != nil {
			logger.FromContext(ctx).Warnw("cv cleanup failed", "path", p, "err", err)
		}
	}
}

/*──────────────────────────── admin ────────────────────────────────────*/

func (c *Component) applications(w http.ResponseWriter, r *http.Request) {
	var jobID uint64
	if s := r.URL.Query().Get("job"); s != "" {
		id, err := api.IDParam(s)
		if err != nil {
			api.Error(w, r, err)
			return
		}
		jobID = id
	}
	out, err := c.d.Content.Applications(r.Context(), jobID)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if out == nil {
		out = []content.Application{}
	}
	api.WriteJSON(w, r, http.StatusOK, out)
}

func (c *Component) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	var in content.StatusInput
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	if err := c.d.Content.SetApplicationStatus(r.Context(), id, in.Status); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (c *Component) deleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	cv, err := c.d.Content.DeleteApplication(r.Context(), id)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	c.removeFiles(r.Context(), cv)
	api.NoContent(w)
}
