package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/uploads"
	"github.com/goliatone/go-sitecms/internal/users"
	schemavalidation "github.com/goliatone/go-sitecms/internal/validation"
)

var (
	errBadRequest         = errors.New("bad request")
	errServiceUnavailable = errors.New("service unavailable")
)

type fieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error   string                             `json:"error"`
	Message string                             `json:"message,omitempty"`
	Fields  []fieldError                       `json:"fields,omitempty"`
	Issues  []schemavalidation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

// decodeJSON reads at most api.maxBodyBytes from the request body.
func (api *API) decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, api.maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

// writeDecodeError answers 413 when the body hit its size cap and 400 for
// anything else.
func writeDecodeError(w http.ResponseWriter, err error) {
	if tooLarge, ok := bodyTooLarge(err); ok {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "payload_too_large",
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	writeBadRequest(w, "invalid json body")
}

func bodyTooLarge(err error) (*http.MaxBytesError, bool) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLarge, true
	}
	return nil, false
}

func writeUnavailable(w http.ResponseWriter) {
	writeError(w, errServiceUnavailable)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, errServiceUnavailable) {
		return http.StatusServiceUnavailable, errorResponse{Error: "unavailable", Message: err.Error()}
	}

	var areaNotFound *areas.NotFoundError
	var catalogNotFound *catalog.NotFoundError
	var userNotFound *users.NotFoundError
	if errors.Is(err, areas.ErrUnknownArea) ||
		errors.As(err, &areaNotFound) ||
		errors.As(err, &catalogNotFound) ||
		errors.As(err, &userNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, users.ErrInvalidCredentials) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()}
	}

	if errors.Is(err, permissions.ErrPermissionDenied) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}

	if errors.Is(err, catalog.ErrSlugConflict) ||
		errors.Is(err, users.ErrEmailTaken) ||
		errors.Is(err, users.ErrLastAdmin) {
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	}

	if errors.Is(err, uploads.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{Error: "too_large", Message: err.Error()}
	}
	if errors.Is(err, uploads.ErrNotImage) {
		return http.StatusUnsupportedMediaType, errorResponse{Error: "unsupported_media_type", Message: err.Error()}
	}

	var contactErrs contact.ValidationErrors
	if errors.As(err, &contactErrs) {
		fields := make([]fieldError, 0, len(contactErrs))
		for _, fe := range contactErrs {
			fields = append(fields, fieldError{Field: fe.Field, Code: string(fe.Code), Message: fe.Message})
		}
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation_failed", Message: err.Error(), Fields: fields}
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Fields:  validationFields(fieldErrs),
		}
	}

	if errors.Is(err, schemavalidation.ErrSchemaValidation) ||
		errors.Is(err, bilingual.ErrUnknownField) ||
		errors.Is(err, bilingual.ErrInvalidValue) ||
		errors.Is(err, catalog.ErrSlugInvalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  schemavalidation.Issues(err),
		}
	}

	if errors.Is(err, errBadRequest) ||
		errors.Is(err, areas.ErrLocaleRequired) ||
		errors.Is(err, locale.ErrUnsupported) ||
		errors.Is(err, uploads.ErrEmpty) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func validationFields(errs validation.Errors) []fieldError {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]fieldError, 0, len(keys))
	for _, key := range keys {
		fe := fieldError{Field: key, Message: errs[key].Error()}
		var coded validation.Error
		if errors.As(errs[key], &coded) {
			fe.Code = coded.Code()
		}
		out = append(out, fe)
	}
	return out
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func requirePermission(w http.ResponseWriter, r *http.Request, permission string) bool {
	if strings.TrimSpace(permission) == "" {
		return true
	}
	if r == nil {
		writeBadRequest(w, "request missing")
		return false
	}
	if err := permissions.Require(r.Context(), permission); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// actorID returns the authenticated user, or uuid.Nil.
func actorID(r *http.Request) uuid.UUID {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.UserID
	}
	return uuid.Nil
}

func authenticated(r *http.Request) bool {
	_, ok := auth.IdentityFromContext(r.Context())
	return ok
}

// requestLocale returns the explicit ?locale= value when present and the
// negotiated locale otherwise. An explicit but unsupported value is an
// error.
func (api *API) requestLocale(r *http.Request) (locale.Locale, error) {
	loc, explicit, err := api.negotiator.Explicit(r)
	if err != nil {
		return "", err
	}
	if explicit {
		return loc, nil
	}
	if loc, ok := locale.FromContext(r.Context()); ok {
		return loc, nil
	}
	return api.negotiator.Resolve(r), nil
}
