// internal/api/respond.go
//
// JSON responses and error translation.
//
// Context
// -------
// Handlers never pick status codes for errors themselves; they call Error
// and the mapping below decides.  Unknown errors are logged with the
// request-scoped logger and answered with a generic 500.
//
//	*BadRequestError                   400
//	*ValidationError                   422  (+ fields)
//	content.ErrInvalidSlug/Status      422
//	content.ErrNotFound                404
//	ErrSlugTaken/HasChildren/          409
//	  InvalidParent/JobClosed
//	upload.ErrTooLarge                 413
//	upload.ErrType                     415
//	database.ErrUnavailable            503
//
// Read responses carry a weak ETag computed with xxhash over the encoded
// body; a matching If-None-Match yields 304 with no body.

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/upload"
)

// Body is the error envelope.
type Body struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// WriteJSON encodes v with status.  GET and HEAD 200 responses get an ETag
// and honour If-None-Match.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.FromContext(r.Context()).Errorw("json encode", "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	WriteBody(w, r, status, "application/json; charset=utf-8", buf.Bytes())
}

// WriteBody writes a pre-rendered body.  GET and HEAD 200 responses get an
// ETag and honour If-None-Match; the HTML page cache uses it too.  HTML is
// negotiated on Accept-Language and the lang cookie, so shared caches are
// told to key on both.
func WriteBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if strings.HasPrefix(contentType, "text/html") {
		w.Header().Add("Vary", "Accept-Language, Cookie")
	}

	if status == http.StatusOK && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		tag := ETag(body)
		w.Header().Set("ETag", tag)
		if etagMatch(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// ETag returns the weak entity tag for body.
func ETag(body []byte) string {
	return `W/"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

func etagMatch(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, cand := range strings.Split(header, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || strings.TrimPrefix(cand, "W/") == strings.TrimPrefix(tag, "W/") {
			return true
		}
	}
	return false
}

// Fail writes the error envelope with a fixed message.
func Fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Error: msg})
}

// NoContent answers 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Error translates err into a status code and envelope.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Errorw("request failed", "status", status, "err", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Classify maps err to its status and the body safe to show a client.
func Classify(err error) (int, Body) {
	var (
		verr *ValidationError
		berr *BadRequestError
	)
	switch {
	case errors.As(err, &berr):
		return http.StatusBadRequest, Body{Error: berr.Error()}
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, Body{Error: "validation failed", Fields: verr.Fields}
	case errors.Is(err, content.ErrInvalidSlug), errors.Is(err, content.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, Body{Error: err.Error()}
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound, Body{Error: "not found"}
	case errors.Is(err, content.ErrSlugTaken),
		errors.Is(err, content.ErrHasChildren),
		errors.Is(err, content.ErrInvalidParent),
		errors.Is(err, content.ErrJobClosed):
		return http.StatusConflict, Body{Error: err.Error()}
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, Body{Error: err.Error()}
	case errors.Is(err, upload.ErrType):
		return http.StatusUnsupportedMediaType, Body{Error: err.Error()}
	case errors.Is(err, upload.ErrKind):
		return http.StatusUnprocessableEntity, Body{Error: err.Error()}
	case errors.Is(err, upload.ErrPath):
		return http.StatusNotFound, Body{Error: "not found"}
	case errors.Is(err, database.ErrUnavailable):
		return http.StatusServiceUnavailable, Body{Error: "service unavailable"}
	}
	return http.StatusInternalServerError, Body{Error: "internal error"}
}

// IDParam parses a positive integer URL parameter.
func IDParam(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, content.ErrNotFound
	}
	return id, nil
}
