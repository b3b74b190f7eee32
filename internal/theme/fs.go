package theme

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// templateFiles returns every *.html file below dir in lexical order, so
// a set always parses its partials in the same sequence.  A missing dir
// holds no templates; partials/ is optional.
func templateFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
