package http

import "net/http"

func (api *API) registerNavigationRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "navigation"), func(w http.ResponseWriter, r *http.Request) {
		if api.navigation == nil {
			writeUnavailable(w)
			return
		}
		loc, err := api.requestLocale(r)
		if err != nil {
			writeError(w, err)
			return
		}
		menu, err := api.navigation.Menu(r.Context(), loc)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, menu)
	})
}
