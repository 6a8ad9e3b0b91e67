package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

// listOptions hides unpublished rows from anonymous callers. Signed-in
// callers see everything unless they ask for ?published=true.
func listOptions(r *http.Request) catalog.ListOptions {
	query := r.URL.Query()
	opts := catalog.ListOptions{Category: strings.TrimSpace(query.Get("category"))}
	if authenticated(r) {
		opts.PublishedOnly = parseBoolQuery(query.Get("published"), false)
	} else {
		opts.PublishedOnly = true
	}
	return opts
}

// viewLocale reports the locale a ?locale= query asks for. Without one the
// handlers return stored bilingual records.
func (api *API) viewLocale(r *http.Request) (locale.Locale, bool, error) {
	return api.negotiator.Explicit(r)
}

func (api *API) registerProjectRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "projects")

	mux.Handle("GET "+root, api.optional(func(w http.ResponseWriter, r *http.Request) {
		if api.projects == nil {
			writeUnavailable(w)
			return
		}
		loc, flat, err := api.viewLocale(r)
		if err != nil {
			writeError(w, err)
			return
		}
		records, err := api.projects.List(r.Context(), listOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if flat {
			writeJSON(w, http.StatusOK, catalog.ProjectViews(records, loc, api.negotiator.Set().Default))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}))

	mux.Handle("POST "+root, api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ProjectsCreate) {
			return
		}
		if api.projects == nil {
			writeUnavailable(w)
			return
		}
		var input catalog.ProjectInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		project, err := api.projects.Create(r.Context(), input, actorID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, project)
	}))

	// {id} also accepts a slug so public pages can link by slug.
	mux.Handle("GET "+root+"/{id}", api.optional(func(w http.ResponseWriter, r *http.Request) {
		if api.projects == nil {
			writeUnavailable(w)
			return
		}
		loc, flat, err := api.viewLocale(r)
		if err != nil {
			writeError(w, err)
			return
		}
		key := r.PathValue("id")
		var project *catalog.Project
		if id, parseErr := parseUUID(key); parseErr == nil {
			project, err = api.projects.Get(r.Context(), id)
		} else {
			project, err = api.projects.GetBySlug(r.Context(), key)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if !project.Published && !authenticated(r) {
			writeError(w, &catalog.NotFoundError{Resource: "project", Key: key})
			return
		}
		if flat {
			writeJSON(w, http.StatusOK, project.View(loc, api.negotiator.Set().Default))
			return
		}
		writeJSON(w, http.StatusOK, project)
	}))

	mux.Handle("PUT "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ProjectsUpdate) {
			return
		}
		if api.projects == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid project id")
			return
		}
		var input catalog.ProjectInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		project, err := api.projects.Update(r.Context(), id, input, actorID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, project)
	}))

	mux.Handle("DELETE "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ProjectsDelete) {
			return
		}
		if api.projects == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid project id")
			return
		}
		if err := api.projects.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (api *API) registerClientRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "clients")

	mux.Handle("GET "+root, api.optional(func(w http.ResponseWriter, r *http.Request) {
		if api.clients == nil {
			writeUnavailable(w)
			return
		}
		loc, flat, err := api.viewLocale(r)
		if err != nil {
			writeError(w, err)
			return
		}
		records, err := api.clients.List(r.Context(), listOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if flat {
			writeJSON(w, http.StatusOK, catalog.ClientViews(records, loc, api.negotiator.Set().Default))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}))

	mux.Handle("POST "+root, api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ClientsCreate) {
			return
		}
		if api.clients == nil {
			writeUnavailable(w)
			return
		}
		var input catalog.ClientInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		client, err := api.clients.Create(r.Context(), input, actorID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, client)
	}))

	mux.Handle("GET "+root+"/{id}", api.optional(func(w http.ResponseWriter, r *http.Request) {
		if api.clients == nil {
			writeUnavailable(w)
			return
		}
		loc, flat, err := api.viewLocale(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid client id")
			return
		}
		client, err := api.clients.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !client.Published && !authenticated(r) {
			writeError(w, &catalog.NotFoundError{Resource: "client", Key: id.String()})
			return
		}
		if flat {
			writeJSON(w, http.StatusOK, client.View(loc, api.negotiator.Set().Default))
			return
		}
		writeJSON(w, http.StatusOK, client)
	}))

	mux.Handle("PUT "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ClientsUpdate) {
			return
		}
		if api.clients == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid client id")
			return
		}
		var input catalog.ClientInput
		if err := api.decodeJSON(w, r, &input); err != nil {
			writeDecodeError(w, err)
			return
		}
		client, err := api.clients.Update(r.Context(), id, input, actorID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, client)
	}))

	mux.Handle("DELETE "+root+"/{id}", api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ClientsDelete) {
			return
		}
		if api.clients == nil {
			writeUnavailable(w)
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeBadRequest(w, "invalid client id")
			return
		}
		if err := api.clients.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}
