// internal/form/submit.go
//
// Forms subsystem: engine and the consolidated Submit helper.
//
// Context
//   Public handlers (contact, careers, login) want one call that parses the
//   POST body, checks CSRF and timing, and validates every field, returning
//   the clean map or a *ValidationError.  Handlers then Bind the map into
//   their entity input, store it, and call ExecuteActions.
//
// Notes
//   The body is capped before it is parsed: forms without a file field
//   accept maxFieldBytes, forms with one accept MaxUpload plus slack.  A
//   larger body is upload.ErrTooLarge, so anonymous posts never spool
//   unbounded data to disk.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yanizio/agrocms/internal/message"
	"github.com/yanizio/agrocms/internal/upload"
)

// maxMemory bounds the in-memory part of a multipart body; larger files
// spill to temp files.
const maxMemory = 8 << 20

const (
	maxFieldBytes = 64 << 10 // whole body of a form without file fields
	uploadSlack   = 1 << 20  // multipart framing and text fields next to files
)

// Engine holds parsed definitions and the CSRF key.
type Engine struct {
	mu     sync.RWMutex
	defs   map[string]*FormDef
	key    []byte
	outbox *message.Outbox
	notify []string
	now    func() time.Time

	// Submissions faster than MinDelay or older than MaxDelay are rejected.
	MinDelay time.Duration
	MaxDelay time.Duration

	// MaxUpload is the largest file a form with file fields accepts.
	MaxUpload int64
}

// NewEngine returns an Engine.  outbox may be nil, in which case actions
// are logged and skipped.  notify is substituted for `to: $notify`.
func NewEngine(secret []byte, outbox *message.Outbox, notify []string) *Engine {
	return &Engine{
		defs:      make(map[string]*FormDef),
		key:       csrfKey(secret),
		outbox:    outbox,
		notify:    notify,
		now:       time.Now,
		MinDelay:  2 * time.Second,
		MaxDelay:  30 * time.Minute,
		MaxUpload: maxMemory,
	}
}

// Submission is a validated form: clean scalar values plus any uploaded
// files keyed by field name.
type Submission struct {
	FormID string
	Values map[string]any
	Files  map[string]*multipart.FileHeader
}

// HandleSubmit parses r and validates it against formID.  Field errors are
// returned as *ValidationError; an oversized body wraps upload.ErrTooLarge;
// any other body that cannot be parsed is a plain error.
func (e *Engine) HandleSubmit(formID string, w http.ResponseWriter, r *http.Request) (*Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, e.bodyLimit(formID))
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, parseErr(formID, "parse multipart", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, parseErr(formID, "parse form", err)
	}

	var files map[string][]*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File
	}
	sub, errs := e.Validate(formID, r.PostForm, files)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return sub, nil
}

// bodyLimit is the largest body formID accepts.
func (e *Engine) bodyLimit(formID string) int64 {
	fd, ok := e.Def(formID)
	if !ok {
		return maxFieldBytes
	}
	for _, f := range fd.Fields {
		if f.Type == "file" {
			return e.MaxUpload + uploadSlack
		}
	}
	return maxFieldBytes
}

func parseErr(formID, what string, err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("form %s: %w", formID, upload.ErrTooLarge)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Bind copies the clean values into dst using dst's json tags.  Numbers
// arrive as float64 and checkboxes as bool, so plain int/bool fields work.
func (s *Submission) Bind(dst any) error {
	raw, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.FormID, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bind %s: %w", s.FormID, err)
	}
	return nil
}

// String returns the clean string value of name, or "".
func (s *Submission) String(name string) string {
	v, _ := s.Values[name].(string)
	return v
}

// IsValidationError reports whether err came from failed validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// State is what a page needs to show a form again after a failed post.
type State struct {
	Prefill map[string]string
	Errors  map[string]ErrorField
}

// StateFrom rebuilds the visitor's input for formID.  Password and file
// fields are never echoed back.  err supplies the field messages when it
// is a *ValidationError.
func (e *Engine) StateFrom(formID string, r *http.Request, err error) State {
	st := State{Prefill: map[string]string{}, Errors: map[string]ErrorField{}}
	var ve *ValidationError
	if errors.As(err, &ve) {
		st.Errors = ve.ByField()
	}
	fd, ok := e.Def(formID)
	if !ok {
		return st
	}
	for _, f := range fd.Fields {
		if f.Type == "password" || f.Type == "file" {
			continue
		}
		if v := r.PostFormValue(f.Name); v != "" {
			st.Prefill[f.Name] = v
		}
	}
	return st
}
