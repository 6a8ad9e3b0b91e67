package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/users"
)

func (api *API) registerUserRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "users")

	mux.Handle("GET "+root, api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.UsersRead) {
			return
		}
		if api.users == nil {
			writeUnavailable(w)
			return
		}
		list, err := api.users.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}))

	mux.Handle("POST "+root, api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.UsersCreate) {
			return
		}
		if api.users == nil {
			writeUnavailable(w)
			return
		}
		var input users.CreateInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		user, err := api.users.Create(r.Context(), input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}))

	mux.Handle("GET "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.UsersRead) {
			return
		}
		if api.users == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid user id")
			return
		}
		user, err := api.users.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}))

	mux.Handle("PUT "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.UsersUpdate) {
			return
		}
		if api.users == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid user id")
			return
		}
		var input users.UpdateInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		user, err := api.users.Update(r.Context(), id, input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}))

	mux.Handle("DELETE "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.UsersDelete) {
			return
		}
		if api.users == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid user id")
			return
		}
		if err := api.users.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}
