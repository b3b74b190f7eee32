package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
	"github.com/yanizio/agrocms/internal/upload"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func setup(t *testing.T) (chi.Router, *component.Deps) {
	t.Helper()
	d, _ := componenttest.New(t, "", nil)
	c := New(d)
	r := chi.NewRouter()
	c.Routes(r)
	r.Route("/api/admin", c.AdminRoutes)
	return r, d
}

func multipartBody(t *testing.T, kind, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, mw.WriteField("kind", kind))
	}
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func asEditor(r *http.Request) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), &auth.Principal{ID: 2, Role: auth.RoleEditor}))
}

func TestReceive_SavesAndServes(t *testing.T) {
	r, _ := setup(t)
	body, ct := multipartBody(t, "image", "Wheat Field.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, asEditor(req))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var saved upload.Saved
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, "image/png", saved.ContentType)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, saved.URL, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, pngHeader, rr.Body.Bytes())
	assert.Contains(t, rr.Header().Get("Cache-Control"), "immutable")
}

func TestReceive_RejectsDisguisedFile(t *testing.T) {
	r, _ := setup(t)
	body, ct := multipartBody(t, "image", "photo.png", []byte("<?php echo 1; ?>"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, asEditor(req))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestReceive_RequiresSignIn(t *testing.T) {
	r, _ := setup(t)
	body, ct := multipartBody(t, "", "a.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServe_MissingAndTraversal(t *testing.T) {
	r, _ := setup(t)
	for _, p := range []string{"/uploads/image/nope.png", "/uploads/../go.mod", "/uploads/image/%2e%2e/%2e%2e/x"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, p)
	}
}
