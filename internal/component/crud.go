// internal/component/crud.go
//
// Generic admin CRUD endpoints.
//
// Context
// -------
// Most admin areas are the same five routes over one content entity:
//
//	GET    /            list
//	GET    /{id}        one
//	POST   /            create  → 201
//	PUT    /{id}        replace
//	DELETE /{id}        delete  → 204
//
// Resource wires whichever of those the component supplies, guarded by
// acl.RequirePermission for its area.  Bodies are decoded and validated
// with api.Decode; every error goes through api.Error.

package component

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/logger"
)

// Resource describes one admin entity.  Nil funcs leave the route out.
type Resource[T, In any] struct {
	Area   string
	List   func(r *http.Request) ([]T, error)
	Get    func(ctx context.Context, id uint64) (*T, error)
	Create func(ctx context.Context, in In) (*T, error)
	Update func(ctx context.Context, id uint64, in In) (*T, error)
	Delete func(ctx context.Context, id uint64) error
}

// Mount registers the routes under pattern.
func (res Resource[T, In]) Mount(r chi.Router, pattern string) {
	read := acl.RequirePermission(res.Area, acl.ActionRead)
	write := acl.RequirePermission(res.Area, acl.ActionWrite)

	r.Route(pattern, func(r chi.Router) {
		if res.List != nil {
			r.With(read).Get("/", res.list)
		}
		if res.Get != nil {
			r.With(read).Get("/{id}", res.one)
		}
		if res.Create != nil {
			r.With(write).Post("/", res.create)
		}
		if res.Update != nil {
			r.With(write).Put("/{id}", res.update)
		}
		if res.Delete != nil {
			r.With(write).Delete("/{id}", res.remove)
		}
	})
}

func (res Resource[T, In]) list(w http.ResponseWriter, r *http.Request) {
	out, err := res.List(r)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if out == nil {
		out = []T{}
	}
	api.WriteJSON(w, r, http.StatusOK, out)
}

func (res Resource[T, In]) one(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	v, err := res.Get(r.Context(), id)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.WriteJSON(w, r, http.StatusOK, v)
}

func (res Resource[T, In]) create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	v, err := res.Create(r.Context(), in)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Infow("admin write", "area", res.Area, "op", "create")
	api.WriteJSON(w, r, http.StatusCreated, v)
}

func (res Resource[T, In]) update(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	var in In
	if err := api.Decode(r, &in); err != nil {
		api.Error(w, r, err)
		return
	}
	v, err := res.Update(r.Context(), id, in)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Infow("admin write", "area", res.Area, "op", "update", "id", id)
	api.WriteJSON(w, r, http.StatusOK, v)
}

func (res Resource[T, In]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if err := res.Delete(r.Context(), id); err != nil {
		api.Error(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Infow("admin write", "area", res.Area, "op", "delete", "id", id)
	api.NoContent(w)
}

// ListJSON serves a public JSON list.  A nil slice is sent as [].
func ListJSON[T any](fn func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		if err != nil {
			api.Error(w, r, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		api.WriteJSON(w, r, http.StatusOK, out)
	}
}
