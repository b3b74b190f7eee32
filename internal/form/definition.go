// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Each public HTML form is declared in a YAML file under
//   “components/<comp>/forms/”.  The file defines the form’s identifier,
//   bilingual labels, fields, and any post-submit actions.  At startup the
//   Engine parses every “*.yaml” once and keeps the resulting FormDef by ID;
//   the renderer, validator, actions, and widget all read from there.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef / ActionDef.
//   •  LoadFormDef parses a single YAML file and validates structural rules.
//   •  Engine.LoadDir walks “<root>/components/*/forms/” and registers each
//      definition, later files overriding earlier ones with the same ID.
//   •  Engine.Def offers read-only access to a parsed form by ID.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// ID is namespaced by component, e.g. “contact/message”.  Actions run after
// the handler has stored the submission.
type FormDef struct {
	ID      string      `yaml:"id"`
	Title   string      `yaml:"title"`
	TitleAr string      `yaml:"title_ar"`
	Submit  string      `yaml:"submit"`
	Fields  []FieldDef  `yaml:"fields"`
	Actions []ActionDef `yaml:"actions"`
}

// FieldDef describes a single input control.  Validation metadata lives
// inline so the server enforces the same rules the browser hints at.
type FieldDef struct {
	Name          string   `yaml:"name"`
	Label         string   `yaml:"label"`
	LabelAr       string   `yaml:"label_ar"`
	Type          string   `yaml:"type"` // text, textarea, email, tel, password, number, date, select, checkbox, file
	Placeholder   string   `yaml:"placeholder"`
	PlaceholderAr string   `yaml:"placeholder_ar"`
	Required      bool     `yaml:"required"`
	MinLength     int      `yaml:"minlength"`
	MaxLength     int      `yaml:"maxlength"`
	Pattern       string   `yaml:"pattern"`
	Options       []string `yaml:"options"`
	Accept        string   `yaml:"accept"` // file inputs only
	ErrorMsg      string   `yaml:"error"`
	ErrorMsgAr    string   `yaml:"error_ar"`

	re *regexp.Regexp
}

// ActionDef configures an action executed after a successful submission.
//
// Params are inline so new kinds can be introduced without schema churn.
type ActionDef struct {
	Type   string         `yaml:"type"` // email, webhook
	Params map[string]any `yaml:",inline"`
}

var fieldTypes = map[string]bool{
	"text": true, "textarea": true, "email": true, "tel": true, "password": true,
	"number": true, "date": true, "select": true, "checkbox": true, "file": true,
}

var actionTypes = map[string]bool{"email": true, "webhook": true}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef parses one YAML file and validates its structure.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// ParseFormDef parses YAML bytes; name is used in error messages only.
func ParseFormDef(raw []byte, name string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}
	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadDir walks “<root>/components/*/forms/*.yaml” and registers every form.
// A missing components directory is not an error.
func (e *Engine) LoadDir(root string) error {
	formsRoot := filepath.Join(root, "components")
	err := filepath.WalkDir(formsRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") ||
			filepath.Base(filepath.Dir(path)) != "forms" {
			return nil
		}
		fd, err := LoadFormDef(path)
		if err != nil {
			return err
		}
		e.Register(fd)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Register adds or replaces fd.  Caller must ensure fd passed validation.
func (e *Engine) Register(fd *FormDef) {
	e.mu.Lock()
	e.defs[fd.ID] = fd
	e.mu.Unlock()
}

// Def returns a parsed FormDef by ID.
func (e *Engine) Def(id string) (*FormDef, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fd, ok := e.defs[id]
	return fd, ok
}

// IDs returns every registered form ID.
func (e *Engine) IDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.defs))
	for id := range e.defs {
		out = append(out, id)
	}
	return out
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func validateFormDef(fd *FormDef, path string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", path)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, path); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", path, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	for _, ac := range fd.Actions {
		if !actionTypes[ac.Type] {
			zap.L().Warn("unrecognised form action", zap.String("form", fd.ID), zap.String("type", ac.Type))
		}
	}
	return nil
}

func validateField(f *FieldDef, path string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", path)
	}
	if f.Name == csrfField || f.Name == tsField {
		return fmt.Errorf("form %s: field name '%s' is reserved", path, f.Name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", path, f.Name)
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", path, f.Name, f.Type)
	}
	if f.Type == "select" && len(f.Options) == 0 {
		return fmt.Errorf("form %s: select '%s' has no options", path, f.Name)
	}

	if f.Pattern != "" {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", path, f.Name, err)
		}
		f.re = re
	}

	if f.MinLength < 0 || f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' minlength/maxlength cannot be negative", path, f.Name)
	}
	if f.MaxLength > 0 && f.MinLength > f.MaxLength {
		return fmt.Errorf("form %s: field '%s' minlength greater than maxlength", path, f.Name)
	}
	return nil
}
