// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed FormDef this file converts the definition into plain,
//   accessible HTML.  It applies HTML5 validation attributes, picks the
//   label language, injects CSRF and render-timestamp hidden inputs, and
//   honours pre-fill data and server-side errors on re-render.
//
// Workflow
//   •  Render looks up the FormDef by ID and writes each field via
//      writeField inside one <form> element.
//   •  Forms with a file field get enctype="multipart/form-data".
//   •  The caller receives template.HTML so the surrounding template does
//      not double-escape the markup.
//
// Style
//   No framework classes.  Each input gets id="fld-{name}" and is wrapped in
//   <div class="form-field">; errored fields add class "has-error".
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	Action  string                // form action URL; empty posts to the page itself
	Arabic  bool                  // use *_ar labels when present
	Prefill map[string]string     // initial values keyed by field name
	Errors  map[string]ErrorField // from ValidationError.ByField
}

// Render returns the HTML markup for formID.
func (e *Engine) Render(formID string, opts RenderOptions) (template.HTML, error) {
	fd, ok := e.Def(formID)
	if !ok {
		return "", fmt.Errorf("render form: unknown form %q", formID)
	}
	tok, err := e.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("render form %s: %w", formID, err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<form class="site-form" method="post"`)
	if opts.Action != "" {
		buf.WriteString(` action="` + html.EscapeString(opts.Action) + `"`)
	}
	if hasFile(fd) {
		buf.WriteString(` enctype="multipart/form-data"`)
	}
	buf.WriteString(` data-form="` + html.EscapeString(fd.ID) + `">` + "\n")

	if fe, ok := opts.Errors[""]; ok {
		buf.WriteString(`<p class="form-error" role="alert">` + html.EscapeString(pick(opts.Arabic, fe.Message, fe.MessageAr)) + `</p>` + "\n")
	}

	for i := range fd.Fields {
		writeField(&buf, &fd.Fields[i], opts)
	}

	buf.WriteString(`<input type="hidden" name="` + csrfField + `" value="` + tok + `">` + "\n")
	buf.WriteString(`<input type="hidden" name="` + tsField + `" value="` + strconv.FormatInt(e.now().UnixMicro(), 10) + `">` + "\n")

	submit := fd.Submit
	if submit == "" {
		submit = pick(opts.Arabic, "Send", "إرسال")
	}
	buf.WriteString(`<button type="submit">` + html.EscapeString(submit) + `</button>` + "\n")
	buf.WriteString(`</form>`)
	return template.HTML(buf.String()), nil
}

func hasFile(fd *FormDef) bool {
	for _, f := range fd.Fields {
		if f.Type == "file" {
			return true
		}
	}
	return false
}

func pick(ar bool, en, arText string) string {
	if ar && arText != "" {
		return arText
	}
	return en
}

// writeField emits one field wrapped in <div class="form-field">.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) {
	val := opts.Prefill[f.Name]
	fe, hasErr := opts.Errors[f.Name]
	name := html.EscapeString(f.Name)
	id := "fld-" + name

	if hasErr {
		buf.WriteString(`<div class="form-field has-error">` + "\n")
	} else {
		buf.WriteString(`<div class="form-field">` + "\n")
	}
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(pick(opts.Arabic, f.Label, f.LabelAr)) + `</label>` + "\n")

	placeholder := pick(opts.Arabic, f.Placeholder, f.PlaceholderAr)
	common := func() {
		if placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(placeholder) + `"`)
		}
		if f.Required {
			buf.WriteString(` required`)
		}
		if f.MinLength > 0 {
			buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
		}
		if f.MaxLength > 0 {
			buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
		}
	}

	switch f.Type {
	case "text", "email", "tel", "password", "number", "date":
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + f.Type + `"`)
		common()
		if f.Pattern != "" {
			buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		if val != "" && f.Type != "password" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea id="` + id + `" name="` + name + `"`)
		common()
		buf.WriteString(`>` + html.EscapeString(val) + `</textarea>` + "\n")

	case "select":
		buf.WriteString(`<select id="` + id + `" name="` + name + `"`)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
		for _, opt := range f.Options {
			sel := ""
			if val == opt {
				sel = ` selected`
			}
			o := html.EscapeString(opt)
			buf.WriteString(`<option value="` + o + `"` + sel + `>` + o + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	case "checkbox":
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="checkbox" value="on"`)
		if val != "" && val != "false" {
			buf.WriteString(` checked`)
		}
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")

	case "file":
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="file"`)
		if f.Accept != "" {
			buf.WriteString(` accept="` + html.EscapeString(f.Accept) + `"`)
		}
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
	}

	buf.WriteString(`<span class="error" aria-live="polite">`)
	if hasErr {
		buf.WriteString(html.EscapeString(pick(opts.Arabic, fe.Message, fe.MessageAr)))
	}
	buf.WriteString(`</span>` + "\n")
	buf.WriteString(`</div>` + "\n")
}
