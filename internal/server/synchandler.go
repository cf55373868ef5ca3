package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/corpintra/directory-sync/internal/httputil"
	dirsync "github.com/corpintra/directory-sync/internal/sync"
)

type syncHandler struct {
	runner *Runner
}

func (s *syncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	var params = dirsync.Params{SyncAvatars: true}
	if dryRun, err := strconv.ParseBool(r.URL.Query().Get("dry_run")); err == nil {
		params.DryRun = dryRun
	}
	if avatars, err := strconv.ParseBool(r.URL.Query().Get("avatars")); err == nil {
		params.SyncAvatars = avatars
	}

	var report, started = s.runner.Run(params)
	if !started {
		log.Printf("!!! 409 Conflict - run already in progress")
		httputil.WriteJSON(w, http.StatusConflict, struct {
			Error string `json:"error"`
		}{"run already in progress"})
		return
	}

	if report.Failed() {
		httputil.WriteJSON(w, http.StatusBadGateway, report)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// SyncHandler triggers one reconciliation pass and responds with its report.
// A pass already underway yields 409; a run aborted by a connector or store
// failure yields 502 with the failed report as body.
func SyncHandler(runner *Runner) http.Handler {
	return &syncHandler{runner: runner}
}

// LastReportHandler serves the report of the most recent pass, or 404 when no
// pass has run since startup.
func LastReportHandler(runner *Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var report = runner.Last()
		if report == nil {
			httputil.WriteJSON(w, http.StatusNotFound, struct {
				Error string `json:"error"`
			}{"no completed run"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, report)
	})
}
