package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/uploads"
)

const (
	multipartMemory = 8 << 20
	// multipartSlack covers boundaries and part headers around the file.
	multipartSlack = 64 << 10
)

type uploadResponse struct {
	Success     bool   `json:"success"`
	Path        string `json:"path,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (api *API) registerUploadRoutes(mux *http.ServeMux, base string) {
	mux.Handle("POST "+joinPath(base, "uploads"), api.protect(api.upload))

	if api.uploadsRoute == "" || api.uploadsDir == "" {
		return
	}
	route := joinPath(api.uploadsRoute, "") + "/"
	mux.Handle("GET "+route, http.StripPrefix(route, inertFiles(http.FileServer(http.Dir(api.uploadsDir)))))
}

// inertFiles stops browsers from sniffing or executing stored files.
func inertFiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		next.ServeHTTP(w, r)
	})
}

func (api *API) upload(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, permissions.UploadsCreate) {
		return
	}
	if api.uploads == nil {
		writeUnavailable(w)
		return
	}
	loc := locale.FromContextOr(r.Context(), api.negotiator.Set().Default)

	limit := api.uploads.MaxBytes() + multipartSlack
	if r.ContentLength > limit {
		writeUploadTooLarge(w, loc)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if _, ok := bodyTooLarge(err); ok {
			writeUploadTooLarge(w, loc)
			return
		}
		writeBadRequest(w, "multipart form expected")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	result, err := api.uploads.Upload(r.Context(), uploads.Upload{
		Filename:    header.Filename,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		status, payload := mapError(err)
		resp := uploadResponse{Error: payload.Error, Message: payload.Message}
		switch {
		case errors.Is(err, uploads.ErrNotImage):
			resp.Message = locale.Message(loc, locale.MsgNotAnImage)
		case errors.Is(err, uploads.ErrTooLarge):
			resp.Message = locale.Message(loc, locale.MsgFileTooLarge)
		case status >= http.StatusInternalServerError:
			resp.Message = locale.Message(loc, locale.MsgUploadFailed)
		}
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Success:     true,
		Path:        result.Path,
		Size:        result.Size,
		ContentType: result.ContentType,
	})
}

func writeUploadTooLarge(w http.ResponseWriter, loc locale.Locale) {
	writeJSON(w, http.StatusRequestEntityTooLarge, uploadResponse{
		Error:   "payload_too_large",
		Message: locale.Message(loc, locale.MsgFileTooLarge),
	})
}
