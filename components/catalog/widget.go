// components/catalog/widget.go
//
// "catalog/menu" renders the published category tree through the theme's
// "widget/catalog-menu" partial.  A failed lookup renders nothing, logs a
// warning, and keeps the page out of the page cache so the menu returns
// on the next request.
package catalog

import (
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/view"
	"github.com/yanizio/agrocms/internal/widget"
)

var _ widget.Widget = (*menuWidget)(nil)

type menuWidget struct{ c *Component }

func (w *menuWidget) ID() string { return "catalog/menu" }

func (w *menuWidget) Render(rctx any, _ map[string]any) (string, int, error) {
	sc, ok := rctx.(*site.Context)
	if !ok {
		return "", int(view.CacheDefault), nil
	}
	tree, err := w.c.d.Content.CategoryTree(sc.Ctx())
	if err != nil {
		zap.L().Warn("catalog menu degraded", zap.Error(err))
		return "", int(view.CacheSkip), nil
	}
	html, err := w.c.d.View.RenderPartial("widget/catalog-menu", map[string]any{"Ctx": sc, "Tree": tree})
	return html, int(view.CacheDefault), err
}
