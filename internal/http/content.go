package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

type areaSchema struct {
	Area   areas.Area        `json:"area"`
	Label  string            `json:"label"`
	Fields []bilingual.Field `json:"fields"`
}

func schemaOf(def areas.Definition) areaSchema {
	return areaSchema{Area: def.Area, Label: def.Label, Fields: def.Schema.Fields()}
}

func (api *API) registerAreaRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "areas")

	mux.HandleFunc("GET "+root, func(w http.ResponseWriter, r *http.Request) {
		if api.areas == nil {
			writeUnavailable(w)
			return
		}
		defs := api.areas.Definitions()
		out := make([]areaSchema, 0, len(defs))
		for _, def := range defs {
			out = append(out, schemaOf(def))
		}
		writeJSON(w, http.StatusOK, map[string]any{"areas": out})
	})

	mux.HandleFunc("GET "+root+"/{area}", func(w http.ResponseWriter, r *http.Request) {
		if api.areas == nil {
			writeUnavailable(w)
			return
		}
		def, err := api.areas.Definition(r.PathValue("area"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, schemaOf(def))
	})
}

func (api *API) registerContentRoutes(mux *http.ServeMux, base string) {
	content := joinPath(base, "content") + "/{area}"
	site := joinPath(base, "site") + "/{area}"

	// Admin reads are strict: a blank locale value stays blank.
	mux.Handle("GET "+content, api.optional(func(w http.ResponseWriter, r *http.Request) {
		api.serveArea(w, r, areas.GetRequest{IncludePrivate: authenticated(r)})
	}))

	mux.Handle("PUT "+content, api.protect(api.saveContent))

	mux.HandleFunc("GET "+site, func(w http.ResponseWriter, r *http.Request) {
		api.serveArea(w, r, areas.GetRequest{Fallback: true, RenderRichText: true})
	})
}

func (api *API) serveArea(w http.ResponseWriter, r *http.Request, req areas.GetRequest) {
	if api.areas == nil {
		writeUnavailable(w)
		return
	}
	loc, err := api.requestLocale(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Area = r.PathValue("area")
	req.Locale = loc
	view, err := api.areas.Get(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// saveContent accepts either {"locale": "en", "values": {...}} or a flat
// object of field values carrying a "locale" key. The locale must be given
// in the body or the query string.
func (api *API) saveContent(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, permissions.ContentUpdate) {
		return
	}
	if api.areas == nil {
		writeUnavailable(w)
		return
	}

	var body map[string]any
	if err := api.decodeJSON(w, r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	loc, values, err := api.contentPayload(r, body)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := api.areas.Save(r.Context(), areas.SaveRequest{
		Area:    r.PathValue("area"),
		Locale:  loc,
		Values:  values,
		ActorID: actorID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (api *API) contentPayload(r *http.Request, body map[string]any) (locale.Locale, map[string]any, error) {
	var loc locale.Locale
	switch raw := body["locale"].(type) {
	case nil:
		explicit, ok, err := api.negotiator.Explicit(r)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, areas.ErrLocaleRequired
		}
		loc = explicit
	case string:
		parsed, err := api.negotiator.Set().Parse(strings.TrimSpace(raw))
		if err != nil {
			return "", nil, err
		}
		loc = parsed
	default:
		return "", nil, fmt.Errorf("%w: locale must be a string", errBadRequest)
	}

	if nested, ok := body["values"]; ok {
		values, ok := nested.(map[string]any)
		if !ok {
			return "", nil, fmt.Errorf("%w: values must be an object", errBadRequest)
		}
		return loc, values, nil
	}

	values := make(map[string]any, len(body))
	for key, value := range body {
		if key == "locale" || key == "area" {
			continue
		}
		values[key] = value
	}
	return loc, values, nil
}
