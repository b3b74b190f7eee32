package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestManagerLoad(t *testing.T) {
	base := t.TempDir()
	m := &Manager{BaseDir: base}
	if _, err := m.Load("default"); err == nil {
		t.Fatal("expected error for missing theme")
	}

	writeFile(t, filepath.Join(base, "default", "layouts", "base.html"), `{{ define "base" }}{{ end }}`)
	if _, err := m.Load("default"); err == nil || !strings.Contains(err.Error(), "pages/error.html") {
		t.Fatalf("expected missing error page, got %v", err)
	}
	if _, err := m.Load("../default"); err == nil {
		t.Fatal("expected error for path-like theme name")
	}

	writeFile(t, filepath.Join(base, "default", "pages", "error.html"), `{{ define "content" }}{{ end }}`)
	writeFile(t, filepath.Join(base, "default", "partials", "widget", "nav.html"), `{{ define "nav" }}{{ end }}`)
	writeFile(t, filepath.Join(base, "default", "partials", "README.txt"), "not a template")
	th, err := m.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	files, err := th.SharedFiles()
	if err != nil || len(files) != 2 {
		t.Fatalf("shared files = %v, %v", files, err)
	}
	if !strings.HasSuffix(th.PageFile("blog/post"), filepath.Join("pages", "blog", "post.html")) {
		t.Fatalf("page file = %s", th.PageFile("blog/post"))
	}
}

func TestAssetFingerprint(t *testing.T) {
	root := t.TempDir()
	th := New("default", root)
	writeFile(t, filepath.Join(root, "assets", "css", "site.css"), "body{}")

	u := th.Asset("css/site.css")
	if !strings.HasPrefix(u, "/assets/css/site.css?v=") {
		t.Fatalf("asset url = %s", u)
	}
	if got := th.Asset("../../etc/passwd"); got != "/assets/etc/passwd" {
		t.Fatalf("traversal not cleaned: %s", got)
	}

	writeFile(t, filepath.Join(root, "assets", "css", "site.css"), "body{color:red}")
	if th.Asset("css/site.css") != u {
		t.Fatal("fingerprint should be cached until reset")
	}
	th.ResetAssets()
	if th.Asset("css/site.css") == u {
		t.Fatal("fingerprint should change after reset")
	}
}
