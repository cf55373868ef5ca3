package httputil

import (
	"encoding/json"
	"net/http"
)

func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	var bytes, _ = json.Marshal(body)
	w.Write(bytes)
}
