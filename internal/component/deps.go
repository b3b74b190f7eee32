// internal/component/deps.go
//
// Deps is everything a component may need, built once in cmd/web.  Fields
// are pointers to shared, concurrency-safe services; a component keeps the
// *Deps it was constructed with.
package component

import (
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/config"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/message"
	"github.com/yanizio/agrocms/internal/session"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/upload"
	"github.com/yanizio/agrocms/internal/view"
	"github.com/yanizio/agrocms/internal/widget"
)

// Deps bundles shared services.
type Deps struct {
	Config   *config.Config
	Log      *zap.SugaredLogger
	Pool     *database.Pool
	Cache    *cache.Store
	Content  *content.Service
	View     *view.Engine
	Site     *site.Factory
	Forms    *form.Engine
	Widgets  *widget.Registry
	Uploads  *upload.Store
	Sessions *session.Manager
	Auth     *auth.Authenticator
	Admins   *auth.Store
	Outbox   *message.Outbox
}
