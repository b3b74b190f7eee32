//
//  internal/theme/helper.go
//
//  Asset URL helper exposed to templates as {{ asset "css/site.css" }}.
//  The URL carries ?v=<xxhash of the file> so a changed file gets a new
//  URL and the old one can be cached forever.
//

package theme

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Asset returns the public URL for p, relative to the assets directory.
// A missing file yields the bare URL without a fingerprint.
func (t *Theme) Asset(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	url := "/assets/" + p

	t.mu.RLock()
	sum, ok := t.sums[p]
	t.mu.RUnlock()
	if !ok {
		sum = fingerprint(filepath.Join(t.AssetDir(), filepath.FromSlash(p)))
		t.mu.Lock()
		t.sums[p] = sum
		t.mu.Unlock()
	}
	if sum == "" {
		return url
	}
	return url + "?v=" + sum
}

// ResetAssets forgets cached fingerprints.  The template watcher calls it.
func (t *Theme) ResetAssets() {
	t.mu.Lock()
	t.sums = make(map[string]string)
	t.mu.Unlock()
}

func fingerprint(file string) string {
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return strconv.FormatUint(h.Sum64(), 36)
}
