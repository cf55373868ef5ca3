package server

import (
	"net/http"

	"github.com/corpintra/directory-sync/internal/httputil"
)

func InfoHandler(version, runtimeVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		var info = struct {
			Version   string `json:"version"`
			GoVersion string `json:"go_version"`
		}{version, runtimeVersion}

		httputil.WriteJSON(w, http.StatusOK, info)
	})
}
