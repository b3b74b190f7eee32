//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + country, URL, and timestamp).  Contact
//  submissions copy IP, country, and the UA summary from here.
//
//  Dependencies
//  • internal/ua                        (uasurfer wrapper)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/agrocms/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.  Empty when no database is
// configured or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string // "EG", "SA", "AE", ...
	City       string
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA        ua.Info
	Geo       Geo
	URL       *url.URL // read-only
	Timestamp time.Time
}

// IP returns the client address as text, or "".
func (ri *RequestInfo) IP() string {
	if ri == nil || ri.Geo.IP == nil {
		return ""
	}
	return ri.Geo.IP.String()
}

//
//  -----------------------------
//  GeoIP
//  -----------------------------
//

// GeoDB wraps a GeoLite2 (Country or City) reader.  A nil *GeoDB is valid
// and answers every lookup with an empty Geo.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens the MaxMind database at path.  An empty path returns
// (nil, nil).
func OpenGeo(path string) (*GeoDB, error) {
	if path == "" {
		return nil, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db %s: %w", path, err)
	}
	return &GeoDB{r: r}, nil
}

// Close releases the memory-mapped file.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}

// Lookup returns best-effort Geo data for ip.
func (g *GeoDB) Lookup(ip net.IP) Geo {
	if g == nil || g.r == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{}

// WithInfo returns ctx carrying ri.
func WithInfo(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, ri)
}

// FromContext returns the pointer previously stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}
