package theme

import (
	"fmt"
	"os"
	"path/filepath"
)

// required lists the files every theme ships.  The view engine starts
// each page at "base" and falls back to "error" for failed loads.
var required = []string{
	filepath.Join("layouts", "base.html"),
	filepath.Join("pages", "error.html"),
}

// Manager locates themes under BaseDir.
type Manager struct {
	BaseDir string // parent of theme directories, absolute or relative to the working dir
}

// Load returns the named theme once its required files are present.
func (m *Manager) Load(name string) (*Theme, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("theme %q: invalid name", name)
	}
	root := filepath.Join(m.BaseDir, name)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("theme %s: %s is not a directory", name, root)
	}
	for _, f := range required {
		if _, err := os.Stat(filepath.Join(root, f)); err != nil {
			return nil, fmt.Errorf("theme %s: missing %s: %w", name, filepath.ToSlash(f), err)
		}
	}
	return New(name, root), nil
}
