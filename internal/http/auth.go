package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-sitecms/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      auth.Identity `json:"user"`
}

func (api *API) registerAuthRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "auth")

	mux.HandleFunc("POST "+root+"/login", api.login)

	mux.Handle("GET "+root+"/me", api.protect(func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, id)
	}))

	mux.HandleFunc("POST "+root+"/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     api.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	})
}

func (api *API) login(w http.ResponseWriter, r *http.Request) {
	if api.users == nil || api.tokens == nil {
		writeUnavailable(w)
		return
	}
	var req loginRequest
	if err := api.decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	user, err := api.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		api.logger.Warn("http.login.rejected", "email", req.Email, "error", err)
		writeError(w, err)
		return
	}
	id := auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	token, expires, err := api.tokens.Issue(id)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	api.logger.Info("http.login.success", "user_id", user.ID.String())
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires, User: id})
}
