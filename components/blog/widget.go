package blog

import (
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/view"
)

const defaultLatest = 3

// latestWidget renders the newest posts: {{ widget $ "blog/latest" (dict "n" 5) }}.
type latestWidget struct{ c *Component }

func (w *latestWidget) ID() string { return "blog/latest" }

func (w *latestWidget) Render(rctx any, params map[string]any) (string, int, error) {
	sc, ok := rctx.(*site.Context)
	if !ok {
		return "", int(view.CacheDefault), nil
	}
	n := defaultLatest
	if v, ok := params["n"].(int); ok && v > 0 {
		n = v
	}
	posts, err := w.c.d.Content.LatestPosts(sc.Ctx(), n)
	if err != nil {
		zap.L().Warn("latest posts degraded", zap.Error(err))
		return "", int(view.CacheSkip), nil
	}
	html, err := w.c.d.View.RenderPartial("widget/blog-latest", map[string]any{"Ctx": sc, "Posts": posts})
	return html, int(view.CacheDefault), err
}
