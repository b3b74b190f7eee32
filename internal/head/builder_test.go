package head

import (
	"net/url"
	"strings"
	"testing"
)

func TestTitle(t *testing.T) {
	b := New("Green Fields")
	if got := b.Title(); got != "<title>Green Fields</title>" {
		t.Fatalf("default title = %s", got)
	}
	b.SetTitle("Fertilisers & Seeds")
	if got := b.Title(); got != "<title>Fertilisers &amp; Seeds | Green Fields</title>" {
		t.Fatalf("title = %s", got)
	}
}

func TestAlternates(t *testing.T) {
	b := New("")
	u, _ := url.Parse("/products?category=npk&lang=ar")
	b.Alternates("https://example.com", u, []string{"en", "ar"}, "en")
	links := string(b.Links())
	for _, want := range []string{
		`hreflang="en" href="https://example.com/products?category=npk&amp;lang=en"`,
		`hreflang="ar" href="https://example.com/products?category=npk&amp;lang=ar"`,
		`hreflang="x-default"`,
	} {
		if !strings.Contains(links, want) {
			t.Errorf("missing %s in %s", want, links)
		}
	}
}

func TestDescriptionDedupAndTrim(t *testing.T) {
	b := New("")
	b.Description(strings.Repeat("ع", 200)) // 400 bytes
	b.Description("second")
	m := string(b.Metas())
	if strings.Contains(m, "second") {
		t.Fatal("second description should be ignored")
	}
	if !strings.HasPrefix(m, `<meta name="description" content="`) {
		t.Fatalf("meta = %s", m)
	}
	if strings.Count(m, "ع") != 150 {
		t.Fatalf("expected trimming on a rune boundary, got %d runes", strings.Count(m, "ع"))
	}
}
