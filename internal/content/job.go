package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const jobCols = `id, slug, title, title_ar, location, location_ar, employment_type,
        description, description_ar, published, closes_at, created_at, updated_at`

const applicationCols = `a.id, a.job_offer_id, j.title AS job_title, a.full_name, a.email, a.phone,
        a.cover_letter, a.cv_path, a.status, a.created_at, a.updated_at`

// openJob is the public visibility predicate for job offers.
const openJob = `published = 1 AND (closes_at IS NULL OR closes_at > ?)`

/*──────────────────────────── public reads ────────────────────────────────*/

// OpenJobs lists published offers that have not closed.
func (s *Service) OpenJobs(ctx context.Context) ([]Job, error) {
	return cache.Fetch(ctx, s.cache, "jobs:open", ttlJobs, []string{TagJobs},
		func(ctx context.Context) ([]Job, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Job
			if err := db.SelectContext(ctx, &out, `SELECT `+jobCols+` FROM job_offer
        WHERE `+openJob+` ORDER BY created_at DESC, id DESC`, s.now()); err != nil {
				return nil, fmt.Errorf("open jobs: %w", err)
			}
			return out, nil
		})
}

// JobBySlug returns an open job offer or ErrNotFound.
func (s *Service) JobBySlug(ctx context.Context, slug string) (*Job, error) {
	return cache.Fetch(ctx, s.cache, "jobs:slug:"+slug, ttlJobs, []string{TagJobs},
		func(ctx context.Context) (*Job, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var j Job
			if err := db.GetContext(ctx, &j, `SELECT `+jobCols+` FROM job_offer
        WHERE slug = ? AND `+openJob, slug, s.now()); err != nil {
				return nil, notFound(err, "job by slug")
			}
			return &j, nil
		})
}

/*──────────────────────────── admin: offers ───────────────────────────────*/

// Jobs lists every job offer.
func (s *Service) Jobs(ctx context.Context) ([]Job, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []Job
	if err := db.SelectContext(ctx, &out,
		`SELECT `+jobCols+` FROM job_offer ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// Job returns one job offer by id.
func (s *Service) Job(ctx context.Context, id uint64) (*Job, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getJob(ctx, db, id)
}

func getJob(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Job, error) {
	var j Job
	if err := sqlx.GetContext(ctx, q, &j, `SELECT `+jobCols+` FROM job_offer WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "job")
	}
	return &j, nil
}

// CreateJob inserts a job offer.
func (s *Service) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "job_offer", slug, 0); err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO job_offer
        (slug, title, title_ar, location, location_ar, employment_type, description,
         description_ar, published, closes_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slug, in.Title, in.TitleAr, in.Location, in.LocationAr, in.EmploymentType,
		in.Description, in.DescriptionAr, in.Published, in.ClosesAt)
	if err != nil {
		return nil, writeErr(err, "insert job")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagJobs}, "/careers")
	return getJob(ctx, db, id)
}

// UpdateJob replaces a job offer.
func (s *Service) UpdateJob(ctx context.Context, id uint64, in JobInput) (*Job, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getJob(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "job_offer", slug, id); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `UPDATE job_offer SET
        slug = ?, title = ?, title_ar = ?, location = ?, location_ar = ?, employment_type = ?,
        description = ?, description_ar = ?, published = ?, closes_at = ?
        WHERE id = ?`,
		slug, in.Title, in.TitleAr, in.Location, in.LocationAr, in.EmploymentType,
		in.Description, in.DescriptionAr, in.Published, in.ClosesAt, id); err != nil {
		return nil, writeErr(err, "update job")
	}
	s.invalidate([]string{TagJobs}, "/careers", "/careers/"+old.Slug, "/careers/"+slug)
	return getJob(ctx, db, id)
}

// DeleteJob removes a job offer; its applications cascade.  The removed
// applications' CV paths are returned so the caller can delete the files.
func (s *Service) DeleteJob(ctx context.Context, id uint64) ([]string, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getJob(ctx, db, id)
	if err != nil {
		return nil, err
	}
	var cvs []string
	if err := db.SelectContext(ctx, &cvs,
		`SELECT cv_path FROM job_application WHERE job_offer_id = ? AND cv_path <> ''`, id); err != nil {
		return nil, fmt.Errorf("job cvs: %w", err)
	}
	if err := deleteByID(ctx, db, "job_offer", id); err != nil {
		return nil, err
	}
	s.invalidate([]string{TagJobs}, "/careers", "/careers/"+old.Slug)
	return cvs, nil
}

/*──────────────────────────── applications ────────────────────────────────*/

// Apply records an application for the open job with slug.  cvPath is the
// relative upload path, possibly empty.
func (s *Service) Apply(ctx context.Context, slug string, in ApplicationInput, cvPath string) (*Application, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var j Job
	if err := db.GetContext(ctx, &j, `SELECT `+jobCols+` FROM job_offer WHERE slug = ?`, slug); err != nil {
		return nil, notFound(err, "job by slug")
	}
	if !j.Published {
		return nil, ErrNotFound
	}
	if j.ClosesAt != nil && !j.ClosesAt.After(s.now()) {
		return nil, ErrJobClosed
	}

	res, err := db.ExecContext(ctx, `INSERT INTO job_application
        (job_offer_id, full_name, email, phone, cover_letter, cv_path, status)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID, in.FullName, in.Email, in.Phone, in.CoverLetter, cvPath, StatusNew)
	if err != nil {
		return nil, writeErr(err, "insert application")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	return &Application{
		ID: id, JobID: j.ID, JobTitle: j.Title, FullName: in.FullName, Email: in.Email,
		Phone: in.Phone, CoverLetter: in.CoverLetter, CVPath: cvPath, Status: StatusNew,
		CreatedAt: s.now(), UpdatedAt: s.now(),
	}, nil
}

// Applications lists applications, newest first, for one job or all (0).
func (s *Service) Applications(ctx context.Context, jobID uint64) ([]Application, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + applicationCols + ` FROM job_application a
        JOIN job_offer j ON j.id = a.job_offer_id`
	args := []any{}
	if jobID != 0 {
		q += ` WHERE a.job_offer_id = ?`
		args = append(args, jobID)
	}
	q += ` ORDER BY a.created_at DESC, a.id DESC`

	var out []Application
	if err := db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// SetApplicationStatus overwrites an application's status label.
func (s *Service) SetApplicationStatus(ctx context.Context, id uint64, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM job_application WHERE id = ?`, id); err != nil {
		return fmt.Errorf("application lookup: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE job_application SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

// DeleteApplication removes an application and returns its CV path.
func (s *Service) DeleteApplication(ctx context.Context, id uint64) (string, error) {
	db, err := s.db(ctx)
	if err != nil {
		return "", err
	}
	var cv string
	if err := db.GetContext(ctx, &cv, `SELECT cv_path FROM job_application WHERE id = ?`, id); err != nil {
		return "", notFound(err, "application")
	}
	if err := deleteByID(ctx, db, "job_application", id); err != nil {
		return "", err
	}
	return cv, nil
}
