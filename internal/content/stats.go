package content

import (
	"context"
	"fmt"

	"github.com/yanizio/agrocms/internal/cache"
)

// Stats returns dashboard counters.  Cached briefly and never invalidated;
// ten seconds of lag is fine for a dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return cache.Fetch(ctx, s.cache, "dashboard:stats", ttlShort, nil,
		func(ctx context.Context) (*Stats, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var st Stats
			if err := db.GetContext(ctx, &st, `SELECT
        (SELECT COUNT(*) FROM category)  AS categories,
        (SELECT COUNT(*) FROM product)   AS products,
        (SELECT COUNT(*) FROM blog_post) AS posts,
        (SELECT COUNT(*) FROM page)      AS pages,
        (SELECT COUNT(*) FROM job_offer) AS jobs,
        (SELECT COUNT(*) FROM document)  AS documents,
        (SELECT COUNT(*) FROM contact_submission WHERE is_read = 0) AS unread_contacts,
        (SELECT COUNT(*) FROM job_application WHERE status = 'new') AS new_applications`); err != nil {
				return nil, fmt.Errorf("dashboard stats: %w", err)
			}
			return &st, nil
		})
}
