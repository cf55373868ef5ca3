package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpintra/directory-sync/internal/avatar"
	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/hierarchy"
	"github.com/corpintra/directory-sync/internal/identity"
	"github.com/corpintra/directory-sync/internal/notify"
	"github.com/corpintra/directory-sync/internal/store"
	dirsync "github.com/corpintra/directory-sync/internal/sync"
)

func testRunner() (*Runner, *store.EmbeddedStore) {
	var source = directory.NewEmbeddedSource(directory.NewRawRecord(
		"CN=Jane Smith,OU=Engineering,DC=example,DC=org",
		map[string][]string{
			"sAMAccountName": {"jsmith"},
			"mail":           {"jane.smith@example.org"},
			"givenName":      {"Jane"},
			"sn":             {"Smith"},
		}, nil))
	var dataStore = store.NewEmbeddedStore()
	var engine = &dirsync.Engine{
		Source:    source,
		Extractor: identity.Extractor{DefaultDomain: "example.org"},
		Resolver:  hierarchy.Resolver{Source: source, Accounts: dataStore},
		Avatars:   avatar.Extractor{Source: source},
		Store:     dataStore,
		Notifier:  notify.NewNoopNotifier(),
	}
	return NewRunner(engine, NewMetrics(prometheus.NewRegistry())), dataStore
}

func TestSyncHandler(t *testing.T) {
	var runner, dataStore = testRunner()
	var handler = SyncHandler(runner)

	var recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var report dirsync.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	assert.Equal(t, dirsync.StateReported, report.State)
	assert.Equal(t, 1, report.Created)

	_, err := dataStore.FindAccountByEmail("jane.smith@example.org")
	assert.NoError(t, err)
}

func TestSyncHandlerDryRun(t *testing.T) {
	var runner, dataStore = testRunner()
	var handler = SyncHandler(runner)

	var recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sync?dry_run=true", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var report dirsync.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	assert.True(t, report.DryRun)

	_, err := dataStore.FindAccountByEmail("jane.smith@example.org")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestLastReportHandler(t *testing.T) {
	var runner, _ = testRunner()

	var recorder = httptest.NewRecorder()
	LastReportHandler(runner).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sync/last", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code, "no run has completed yet")

	SyncHandler(runner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/sync", nil))

	recorder = httptest.NewRecorder()
	LastReportHandler(runner).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sync/last", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var report dirsync.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
}

func TestHealthHandler(t *testing.T) {
	var recorder = httptest.NewRecorder()
	HealthHandler(store.NewEmbeddedStore()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"UP"}`, recorder.Body.String())
}
