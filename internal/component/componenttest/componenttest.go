// Package componenttest builds a *component.Deps for handler tests: a
// sqlmock-backed pool, a throwaway theme, and the real form definitions.
package componenttest

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/config"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/message"
	"github.com/yanizio/agrocms/internal/session"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/theme"
	"github.com/yanizio/agrocms/internal/upload"
	"github.com/yanizio/agrocms/internal/view"
	"github.com/yanizio/agrocms/internal/widget"
)

// Secret is the session and CSRF secret used by New.
const Secret = "componenttest-secret-0123456789abcdef"

const baseLayout = `{{ define "base" }}<html lang="{{ .Lang }}">{{ template "content" . }}</html>{{ end }}`

// New returns Deps whose pool is backed by sqlmock.  pages maps a page
// name ("blog/post") to its "content" block body; a "partials/..." key is
// written as a raw shared template instead.  When formsRoot is set, form
// definitions are loaded from it.
func New(t *testing.T, formsRoot string, pages map[string]string) (*component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	root := t.TempDir()
	write(t, filepath.Join(root, "layouts", "base.html"), baseLayout)
	if _, ok := pages["error"]; !ok {
		write(t, filepath.Join(root, "pages", "error.html"), `{{ define "content" }}error {{ .Data.Status }}{{ end }}`)
	}
	for name, body := range pages {
		if strings.HasPrefix(name, "partials/") {
			write(t, filepath.Join(root, filepath.FromSlash(name)+".html"), body)
			continue
		}
		write(t, filepath.Join(root, "pages", filepath.FromSlash(name)+".html"),
			`{{ define "content" }}`+body+`{{ end }}`)
	}

	cfg := config.Defaults()
	cfg.Session.Secret = Secret
	cfg.Uploads.Dir = filepath.Join(root, "uploads")

	pool := database.NewPoolFromDB(sqlx.NewDb(raw, "mysql"))
	store := cache.New()
	svc := content.NewService(pool, store)
	th := theme.New("test", root)
	widgets := widget.NewRegistry()
	outbox := message.NewOutbox(message.LogSender{L: zap.NewNop()}, 16, "site@example.com")

	forms := form.NewEngine([]byte(Secret), outbox, []string{"office@example.com"})
	forms.MinDelay = 0
	forms.MaxUpload = 1 << 20
	if formsRoot != "" {
		require.NoError(t, forms.LoadDir(formsRoot))
	}
	forms.RegisterWidgets(widgets)

	sessions, err := session.NewManager(session.Options{Secret: Secret, TTL: time.Hour})
	require.NoError(t, err)
	admins := auth.NewStore(pool)

	return &component.Deps{
		Config:   &cfg,
		Log:      zap.NewNop().Sugar(),
		Pool:     pool,
		Cache:    store,
		Content:  svc,
		View:     view.New(view.Options{Theme: th, Widgets: widgets, Pages: store}),
		Site:     site.NewFactory(svc, th, "Agro", "https://agro.example"),
		Forms:    forms,
		Widgets:  widgets,
		Uploads:  upload.New(cfg.Uploads.Dir, 1<<20),
		Sessions: sessions,
		Auth:     auth.NewAuthenticator(admins),
		Admins:   admins,
		Outbox:   outbox,
	}, mock
}

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

var tokenRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// FormValues returns the hidden fields a browser would post for formID,
// plus the given visible values.
func FormValues(t *testing.T, d *component.Deps, formID string, visible map[string]string) url.Values {
	t.Helper()
	out, err := d.Forms.Render(formID, form.RenderOptions{})
	require.NoError(t, err)
	m := tokenRe.FindStringSubmatch(string(out))
	require.Len(t, m, 2, "csrf token not rendered")

	v := url.Values{}
	v.Set("csrf_token", m[1])
	v.Set("render_ts", strconv.FormatInt(time.Now().Add(-3*time.Second).UnixMicro(), 10))
	for k, val := range visible {
		v.Set(k, val)
	}
	return v
}

// PostForm builds an urlencoded POST request.
func PostForm(target string, v url.Values) *http.Request {
	r, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.RemoteAddr = "203.0.113.9:4000"
	return r
}
