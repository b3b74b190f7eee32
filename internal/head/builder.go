// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single request (or render call).  Core
// and modules push tags into the builder, then the theme’s base layout
// decides where to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins), suffixed
//     with the site name.
//   - Description        – <meta name="description">, escaped.
//   - Alternates         – hreflang links for the English and Arabic
//     variants of the current URL, plus x-default.
//   - Meta, Link, Script – arbitrary tags with deduplication.
//   - JSONLD             – stores raw JSON-LD strings and wraps them in
//     <script type="application/ld+json">…</script>.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"html/template"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"
)

// Builder is **not** safe for concurrent writes from multiple goroutines,
// but typical use is one goroutine per request, so a simple mutex is enough.
type Builder struct {
	mu sync.Mutex

	// Single-value fields
	title    string
	siteName string

	// Multi-value slices
	metas   []string
	links   []string
	scripts []string
	jsonLD  []string

	// seen tracks keys for deduplication (optional).
	seen map[string]struct{}
}

// New returns an empty Builder.  siteName is appended to titles.
func New(siteName string) *Builder {
	return &Builder{siteName: siteName, seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag.  With no title set it falls
// back to the site name alone.
func (b *Builder) Title() template.HTML {
	t := b.title
	switch {
	case t == "":
		t = b.siteName
	case b.siteName != "" && t != b.siteName:
		t += " | " + b.siteName
	}
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

// Description adds the meta description.  Only the first call counts.
func (b *Builder) Description(d string) {
	d = strings.TrimSpace(d)
	if d == "" {
		return
	}
	if len(d) > 300 {
		d = d[:300]
		for !utf8.ValidString(d) { // drop a cut multi-byte rune
			d = d[:len(d)-1]
		}
	}
	b.add("meta:description", &b.metas,
		`<meta name="description" content="`+template.HTMLEscapeString(d)+`">`)
}

// Alternates emits hreflang links for u in every language plus x-default.
// The language travels in the lang query parameter; other parameters are
// kept.
func (b *Builder) Alternates(base string, u *url.URL, langs []string, def string) {
	for _, l := range append(append([]string{}, langs...), "x-default") {
		q := u.Query()
		code := l
		if l == "x-default" {
			code = def
		}
		q.Set("lang", code)
		href := base + u.Path + "?" + q.Encode()
		b.Link(`<link rel="alternate" hreflang="` + l + `" href="` + template.HTMLEscapeString(href) + `">`)
	}
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }
func (b *Builder) JSONLD(js string)  { b.add("jsonld:"+hash(js), &b.jsonLD, js) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	if len(s) > 32 {
		return s[:32]
	}
	return s
}

// ------------------------------------------------------------------
// Rendering helpers called from theme templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
