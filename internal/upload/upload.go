// internal/upload/upload.go
//
// Uploaded file storage under one public root.
//
// Context
// -------
// CVs, images, and downloadable documents are written to
//
//	<root>/<kind>/<unix-nanos>-<uuid8>-<clean-name>.<ext>
//
// and served back by relative path (`/uploads/<kind>/<file>`).  The
// timestamp keeps names roughly sortable; the uuid fragment makes two
// uploads in the same nanosecond distinct.
//
// Workflow
// --------
//  1. Extension checked against the kind's allowlist.
//  2. Body copied through a LimitReader one byte past the cap; overflow →
//     ErrTooLarge and the partial file is removed.
//  3. First 3 KiB sniffed with mimetype and checked against the extension
//     family (a .pdf must look like a PDF).
//  4. Final rename from a temp name, so readers never see half a file.
//
// Notes
// -----
// • Open and Remove reject "..", absolute paths, and anything resolving
//   outside the root.

package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Kind selects a sub-directory and its allowlist.
type Kind string

const (
	KindCV       Kind = "cv"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

var (
	ErrTooLarge = errors.New("upload: file exceeds size limit")
	ErrType     = errors.New("upload: file type not allowed")
	ErrKind     = errors.New("upload: unknown kind")
	ErrPath     = errors.New("upload: invalid path")
)

// allow maps kind → extension → accepted sniffed MIME types.
var allow = map[Kind]map[string][]string{
	KindCV: {
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword", "application/x-ole-storage"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	},
	KindImage: {
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
		".webp": {"image/webp"},
		".svg":  {"image/svg+xml"},
	},
	KindDocument: {
		".pdf":  {"application/pdf"},
		".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
		".zip":  {"application/zip"},
	},
}

// ParseKind validates a kind coming from a form field.  Empty defaults to
// image.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindImage, nil
	}
	k := Kind(s)
	if _, ok := allow[k]; !ok {
		return "", ErrKind
	}
	return k, nil
}

// Saved describes a stored file.
type Saved struct {
	Path        string `json:"path"` // relative to root, slash separated
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store writes and reads uploads under Root.
type Store struct {
	root     string
	maxBytes int64
	urlBase  string
	now      func() time.Time
}

// New returns a Store rooted at dir.  The directory is created on demand.
func New(dir string, maxBytes int64) *Store {
	return &Store{root: dir, maxBytes: maxBytes, urlBase: "/uploads/", now: time.Now}
}

// Root returns the absolute-or-relative root directory.
func (s *Store) Root() string { return s.root }

// MaxBytes returns the per-file cap.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save stores r under kind using name only for its extension and a readable
// stem.
func (s *Store) Save(kind Kind, name string, r io.Reader) (*Saved, error) {
	exts, ok := allow[kind]
	if !ok {
		return nil, ErrKind
	}
	ext := strings.ToLower(filepath.Ext(name))
	mimes, ok := exts[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrType, ext)
	}

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".part-*")
	if err != nil {
		return nil, fmt.Errorf("upload temp: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	var head bytes.Buffer
	tee := io.TeeReader(io.LimitReader(r, 3072), &head)
	n1, err := io.Copy(tmp, tee)
	if err != nil {
		return nil, fmt.Errorf("upload write: %w", err)
	}
	n2, err := io.Copy(tmp, io.LimitReader(r, s.maxBytes-n1+1))
	if err != nil {
		return nil, fmt.Errorf("upload write: %w", err)
	}
	size := n1 + n2
	if size > s.maxBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(head.Bytes())
	if !mimeAllowed(mt, mimes) {
		return nil, fmt.Errorf("%w: %s content in %s file", ErrType, mt.String(), ext)
	}

	file := s.fileName(name, ext)
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("upload close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, file)); err != nil {
		return nil, fmt.Errorf("upload rename: %w", err)
	}
	tmp = nil

	rel := path.Join(string(kind), file)
	return &Saved{
		Path:        rel,
		URL:         s.urlBase + rel,
		ContentType: mimes[0],
		Size:        size,
	}, nil
}

func mimeAllowed(mt *mimetype.MIME, allowed []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func (s *Store) fileName(orig, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(orig), filepath.Ext(orig))
	stem = cleanStem(stem)
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(s.now().UnixNano(), 10) + "-" + id + "-" + stem + ext
}

// cleanStem keeps [a-z0-9_-], lower-cased, at most 40 bytes.
func cleanStem(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteByte('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

/*──────────────────────────── read side ────────────────────────────*/

// Resolve maps a relative upload path to a filesystem path inside root.
func (s *Store) Resolve(rel string) (string, error) {
	rel = strings.TrimPrefix(rel, s.urlBase)
	if rel == "" || strings.Contains(rel, "..") || strings.ContainsRune(rel, '\\') ||
		path.IsAbs(rel) || filepath.IsAbs(rel) {
		return "", ErrPath
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("upload root: %w", err)
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if r, err := filepath.Rel(root, full); err != nil || r == "." || strings.HasPrefix(r, "..") {
		return "", ErrPath
	}
	return full, nil
}

// Open returns the file at rel for reading.
func (s *Store) Open(rel string) (*os.File, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// Remove deletes rel.  A missing file is not an error.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	full, err := s.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload remove: %w", err)
	}
	return nil
}
