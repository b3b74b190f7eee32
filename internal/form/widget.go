// internal/form/widget.go
//
// Forms subsystem: widget integration.
//
// Context
//   Templates embed forms through the widget system:
//
//       {{ widget "contact/message" (dict "action" "/contact") }}
//
//   The adapter wraps Engine.Render and always returns view.CacheSkip so a
//   cached page never carries a stale CSRF token.  Pages that embed a form
//   are therefore rendered uncached (see view.Page).
//
//------------------------------------------------------------------------------

package form

import (
	"github.com/yanizio/agrocms/internal/view"
	"github.com/yanizio/agrocms/internal/widget"
)

var _ widget.Widget = (*formWidget)(nil)

// arabicer is satisfied by *site.Context.
type arabicer interface{ IsArabic() bool }

type formWidget struct {
	e  *Engine
	id string
}

// ID implements widget.Widget.
func (w *formWidget) ID() string { return w.id }

// Render implements widget.Widget.  params may include:
//
//   - "action"  string                – form action URL
//   - "prefill" map[string]string     – values to pre-populate inputs
//   - "errors"  map[string]ErrorField – server-side errors to display
func (w *formWidget) Render(rctx any, params map[string]any) (string, int, error) {
	opts := RenderOptions{}
	if a, ok := rctx.(arabicer); ok {
		opts.Arabic = a.IsArabic()
	}
	if s, ok := params["action"].(string); ok {
		opts.Action = s
	}
	if p, ok := params["prefill"].(map[string]string); ok {
		opts.Prefill = p
	}
	if e, ok := params["errors"].(map[string]ErrorField); ok {
		opts.Errors = e
	}

	out, err := w.e.Render(w.id, opts)
	if err != nil {
		return "", int(view.CacheSkip), err
	}
	return string(out), int(view.CacheSkip), nil
}

// RegisterWidgets adds one widget per loaded form to reg.
func (e *Engine) RegisterWidgets(reg *widget.Registry) {
	for _, id := range e.IDs() {
		reg.Register(&formWidget{e: e, id: id})
	}
}
