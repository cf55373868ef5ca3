package server

import (
	"log"
	"net/http"

	"github.com/corpintra/directory-sync/internal/httputil"
	"github.com/corpintra/directory-sync/internal/store"
)

type healthHandler struct {
	dataStore store.Store
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var status = struct {
		Status string `json:"status"`
	}{"UP"}

	if err := h.dataStore.Ping(); err != nil {
		log.Printf("%s %s", r.Method, r.URL)
		log.Printf("!!! 503 Service Unavailable - %s", err.Error())
		status.Status = err.Error()
		httputil.WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

func HealthHandler(dataStore store.Store) http.Handler {
	return &healthHandler{
		dataStore: dataStore,
	}
}
