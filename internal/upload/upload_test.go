package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newStore(t *testing.T, max int64) *Store {
	t.Helper()
	s := New(t.TempDir(), max)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSave_Image(t *testing.T) {
	s := newStore(t, 1<<20)

	saved, err := s.Save(KindImage, "My Photo.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(saved.Path, "image/1700000000000000000-"), saved.Path)
	assert.True(t, strings.HasSuffix(saved.Path, "-my-photo.png"), saved.Path)
	assert.Equal(t, "/uploads/"+saved.Path, saved.URL)
	assert.Equal(t, int64(len(pngHeader)), saved.Size)

	f, err := s.Open(saved.Path)
	require.NoError(t, err)
	defer f.Close()
	got, _ := io.ReadAll(f)
	assert.Equal(t, pngHeader, got)
}

func TestSave_SameInstantDistinctNames(t *testing.T) {
	s := newStore(t, 1<<20)
	a, err := s.Save(KindImage, "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	b, err := s.Save(KindImage, "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
}

func TestSave_Rejections(t *testing.T) {
	s := newStore(t, 16)

	_, err := s.Save(KindCV, "cv.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrType)

	_, err = s.Save(KindCV, "cv.pdf", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrType)

	_, err = s.Save(KindImage, "big.png", bytes.NewReader(append(pngHeader, make([]byte, 64)...)))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = s.Save(Kind("bin"), "x.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrKind)

	// No partial files left behind.
	entries, _ := os.ReadDir(filepath.Join(s.Root(), string(KindImage)))
	assert.Empty(t, entries)
}

func TestResolve_Traversal(t *testing.T) {
	s := newStore(t, 1<<20)
	for _, p := range []string{"", "../etc/passwd", "image/../../x", "/etc/passwd", `image\..\x`, "/uploads/../secret"} {
		_, err := s.Resolve(p)
		assert.ErrorIs(t, err, ErrPath, p)
	}
	full, err := s.Resolve("/uploads/image/a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(full, filepath.Join("image", "a.png")))
}

func TestRemove(t *testing.T) {
	s := newStore(t, 1<<20)
	saved, err := s.Save(KindImage, "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.NoError(t, s.Remove(saved.Path))
	require.NoError(t, s.Remove(saved.Path)) // already gone
	require.NoError(t, s.Remove(""))
	assert.ErrorIs(t, s.Remove("../x"), ErrPath)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)

	k, err = ParseKind("cv")
	require.NoError(t, err)
	assert.Equal(t, KindCV, k)

	_, err = ParseKind("exe")
	assert.ErrorIs(t, err, ErrKind)
}
