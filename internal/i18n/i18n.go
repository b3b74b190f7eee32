// Package i18n carries the site's two languages through a request.
//
// English is the default language and every record stores it; Arabic is
// optional per field.  Pick falls back to English when the Arabic variant
// is empty, so half-translated content still renders.
package i18n

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/text/language"
)

// Lang is a supported site language.
type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

const (
	queryParam = "lang"
	cookieName = "agro_lang"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Parse maps a user-supplied code to a Lang.  ok is false for anything else.
func Parse(s string) (Lang, bool) {
	switch Lang(s) {
	case English, Arabic:
		return Lang(s), true
	}
	return "", false
}

// Dir returns the HTML dir attribute for l.
func (l Lang) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Other returns the alternate language, used by the language switch link.
func (l Lang) Other() Lang {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Pick returns ar when l is Arabic and ar is non-empty, otherwise en.
func Pick(l Lang, en, ar string) string {
	if l == Arabic && ar != "" {
		return ar
	}
	return en
}

/*──────────────────────────── negotiation ─────────────────────────────────*/

// Negotiate picks the request language: ?lang=, then the cookie, then
// Accept-Language.  It does not write the cookie; Middleware does.
func Negotiate(r *http.Request) Lang {
	if l, ok := Parse(r.URL.Query().Get(queryParam)); ok {
		return l
	}
	if c, err := r.Cookie(cookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l
		}
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		tags, _, err := language.ParseAcceptLanguage(al)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No && idx == 1 {
				return Arabic
			}
		}
	}
	return English
}

type ctxKey struct{}

// WithLang stores l in ctx.
func WithLang(ctx context.Context, l Lang) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request language, English when unset.
func FromContext(ctx context.Context) Lang {
	if l, ok := ctx.Value(ctxKey{}).(Lang); ok {
		return l
	}
	return English
}

// Middleware negotiates the language, persists an explicit ?lang= choice in
// a cookie, and stores the result in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := Negotiate(r)
		if _, explicit := Parse(r.URL.Query().Get(queryParam)); explicit {
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    string(l),
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), l)))
	})
}
