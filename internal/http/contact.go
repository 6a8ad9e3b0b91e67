package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

type contactResponse struct {
	Success bool                     `json:"success"`
	Error   string                   `json:"error,omitempty"`
	Message string                   `json:"message,omitempty"`
	Fields  contact.ValidationErrors `json:"fields,omitempty"`
}

func (api *API) registerContactRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "contact")

	mux.HandleFunc("POST "+root, api.submitContact)

	mux.Handle("GET "+root, api.protect(func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, permissions.ContactRead) {
			return
		}
		if api.contact == nil {
			writeUnavailable(w)
			return
		}
		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		offset, _ := strconv.Atoi(query.Get("offset"))
		if limit <= 0 {
			limit = 50
		}
		list, total, err := api.contact.List(r.Context(), limit, max(offset, 0))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": total})
	}))
}

func (api *API) submitContact(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		writeUnavailable(w)
		return
	}
	loc, err := api.requestLocale(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var form contact.Form
	if err := api.decodeJSON(w, r, &form); err != nil {
		if _, ok := bodyTooLarge(err); ok {
			writeJSON(w, http.StatusRequestEntityTooLarge, contactResponse{
				Error:   "payload_too_large",
				Message: locale.Message(loc, locale.MsgContactFailed),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, contactResponse{
			Error:   "bad_request",
			Message: locale.Message(loc, locale.MsgContactFailed),
		})
		return
	}

	if _, err := api.contact.Submit(r.Context(), loc, form); err != nil {
		var invalid contact.ValidationErrors
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnprocessableEntity, contactResponse{
				Error:   "validation_failed",
				Message: locale.Message(loc, locale.MsgContactFailed),
				Fields:  invalid,
			})
			return
		}
		api.logger.Error("http.contact.failed", "error", err)
		writeJSON(w, http.StatusBadGateway, contactResponse{
			Error:   "delivery_failed",
			Message: locale.Message(loc, locale.MsgContactFailed),
		})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{
		Success: true,
		Message: locale.Message(loc, locale.MsgContactSent),
	})
}
