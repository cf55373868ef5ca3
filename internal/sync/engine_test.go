package sync

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpintra/directory-sync/internal/avatar"
	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/hierarchy"
	"github.com/corpintra/directory-sync/internal/identity"
	"github.com/corpintra/directory-sync/internal/notify"
	"github.com/corpintra/directory-sync/internal/store"
)

const (
	bossPath = "CN=Max Boss,OU=Engineering,DC=example,DC=org"
	janePath = "CN=Jane Smith,OU=Engineering,DC=example,DC=org"
)

var janePhoto = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x42}, 200)...)

func bossRecord() directory.RawRecord {
	return directory.NewRawRecord(bossPath, map[string][]string{
		"sAMAccountName": {"mboss"},
		"mail":           {"max.boss@example.org"},
		"givenName":      {"Max"},
		"sn":             {"Boss"},
		"title":          {"Director"},
	}, nil)
}

func janeRecord() directory.RawRecord {
	return directory.NewRawRecord(janePath, map[string][]string{
		"sAMAccountName": {"jsmith"},
		"mail":           {"jane.smith@example.org"},
		"givenName":      {"Jane"},
		"sn":             {"Smith"},
		"title":          {"Engineer"},
		"manager":        {bossPath},
	}, map[string][][]byte{
		"thumbnailPhoto": {janePhoto},
	})
}

func newEngine(source directory.Source, dataStore store.Store) *Engine {
	return &Engine{
		Source:    source,
		Extractor: identity.Extractor{DefaultDomain: "example.org"},
		Resolver:  hierarchy.Resolver{Source: source, Accounts: dataStore},
		Avatars:   avatar.Extractor{Source: source},
		Store:     dataStore,
		Notifier:  notify.NewNoopNotifier(),
	}
}

func TestRunFullPass(t *testing.T) {
	var source = directory.NewEmbeddedSource(bossRecord(), janeRecord())
	var dataStore = store.NewEmbeddedStore()
	var engine = newEngine(source, dataStore)

	var report = engine.Run(Params{SyncAvatars: true})

	require.Equal(t, StateReported, report.State)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.EqualValues(t, 0, report.Deactivated)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.FinishedAt.IsZero())

	account, err := dataStore.FindAccountByEmail("jane.smith@example.org")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", account.Department)
	assert.Equal(t, "max.boss@example.org", account.ManagerEmail)

	employee, found := dataStore.LookupEmployee("jane.smith@example.org")
	require.True(t, found)
	assert.Equal(t, janePhoto, employee.Avatar)
}

func TestRunIsIdempotent(t *testing.T) {
	var source = directory.NewEmbeddedSource(bossRecord(), janeRecord())
	var engine = newEngine(source, store.NewEmbeddedStore())

	engine.Run(Params{SyncAvatars: true})
	var second = engine.Run(Params{SyncAvatars: true})

	require.Equal(t, StateReported, second.State)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.EqualValues(t, 0, second.Deactivated)
}

func TestRunSkipsAvatarsOnDemand(t *testing.T) {
	var source = directory.NewEmbeddedSource(janeRecord())
	var dataStore = store.NewEmbeddedStore()
	var engine = newEngine(source, dataStore)

	engine.Run(Params{SyncAvatars: false})

	employee, found := dataStore.LookupEmployee("jane.smith@example.org")
	require.True(t, found)
	assert.Nil(t, employee.Avatar)
}

func TestRunDeactivatesDeparted(t *testing.T) {
	var dataStore = store.NewEmbeddedStore()

	var engine = newEngine(directory.NewEmbeddedSource(bossRecord(), janeRecord()), dataStore)
	engine.Run(Params{SyncAvatars: true})

	// Jane disappears from the next fetch.
	engine = newEngine(directory.NewEmbeddedSource(bossRecord()), dataStore)
	var report = engine.Run(Params{SyncAvatars: true})

	require.Equal(t, StateReported, report.State)
	assert.EqualValues(t, 1, report.Deactivated)

	account, err := dataStore.FindAccountByEmail("jane.smith@example.org")
	require.NoError(t, err)
	assert.False(t, account.Active)
	assert.Equal(t, "Jane", account.FirstName, "deactivation must not touch other fields")

	account, err = dataStore.FindAccountByEmail("max.boss@example.org")
	require.NoError(t, err)
	assert.True(t, account.Active)

	// Jane returns: presence reactivates.
	engine = newEngine(directory.NewEmbeddedSource(bossRecord(), janeRecord()), dataStore)
	report = engine.Run(Params{SyncAvatars: true})
	assert.Equal(t, 1, report.Updated)

	account, err = dataStore.FindAccountByEmail("jane.smith@example.org")
	require.NoError(t, err)
	assert.True(t, account.Active)
}

type failingSource struct{}

func (failingSource) Search(filter string, attributes []string) ([]directory.RawRecord, error) {
	return nil, fmt.Errorf("%w: connection refused", directory.ErrConnectorFailure)
}

func (failingSource) SearchOne(basePath, filter string, attributes []string) (*directory.RawRecord, error) {
	return nil, nil
}

func TestRunAbortsOnConnectorFailure(t *testing.T) {
	var dataStore = store.NewEmbeddedStore()

	// Seed an active account; an aborted run must not deactivate it.
	var seed = newEngine(directory.NewEmbeddedSource(bossRecord()), dataStore)
	seed.Run(Params{})

	var engine = newEngine(failingSource{}, dataStore)
	var report = engine.Run(Params{SyncAvatars: true})

	require.True(t, report.Failed())
	assert.Contains(t, report.Failure, "connection refused")
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.EqualValues(t, 0, report.Deactivated)

	account, err := dataStore.FindAccountByEmail("max.boss@example.org")
	require.NoError(t, err)
	assert.True(t, account.Active)
}

type faultyStore struct {
	*store.EmbeddedStore
	failEmail string
}

func (f *faultyStore) UpsertIdentity(ident identity.Identity, managerEmail string, avatarData []byte) (store.Outcome, store.Outcome, error) {
	if strings.EqualFold(ident.Email, f.failEmail) {
		return store.OutcomeUnchanged, store.OutcomeUnchanged, errors.New("constraint violation")
	}
	return f.EmbeddedStore.UpsertIdentity(ident, managerEmail, avatarData)
}

func TestRunIsolatesRecordFailures(t *testing.T) {
	var dataStore = &faultyStore{EmbeddedStore: store.NewEmbeddedStore(), failEmail: "max.boss@example.org"}
	var engine = newEngine(directory.NewEmbeddedSource(bossRecord(), janeRecord()), dataStore)

	var report = engine.Run(Params{})

	require.Equal(t, StateReported, report.State, "a record failure must not abort the run")
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "mboss", report.Errors[0].Handle)
	assert.Contains(t, report.Errors[0].Message, "constraint violation")

	// The failed record still counts as observed and is not deactivated on a
	// later pass, but nothing was written for it.
	_, err := dataStore.FindAccountByEmail("max.boss@example.org")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
	assert.EqualValues(t, 0, report.Deactivated)
}

func TestRunSkipsRecordsWithoutHandle(t *testing.T) {
	var nameless = directory.NewRawRecord("CN=Ghost,DC=example,DC=org", map[string][]string{
		"mail": {"ghost@example.org"},
	}, nil)
	var engine = newEngine(directory.NewEmbeddedSource(nameless, bossRecord()), store.NewEmbeddedStore())

	var report = engine.Run(Params{})

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Errors, "a skipped record is not an error")
}

func TestRunDryRun(t *testing.T) {
	var dataStore = store.NewEmbeddedStore()
	var engine = newEngine(directory.NewEmbeddedSource(bossRecord(), janeRecord()), dataStore)

	var report = engine.Run(Params{DryRun: true, SyncAvatars: true})

	require.Equal(t, StateReported, report.State)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Created)
	assert.NotEmpty(t, report.Changes)

	_, err := dataStore.FindAccountByEmail("jane.smith@example.org")
	assert.ErrorIs(t, err, store.ErrAccountNotFound, "dry run must not write")

	// A dry run against a populated store describes updates instead.
	engine.Run(Params{SyncAvatars: true})
	report = engine.Run(Params{DryRun: true, SyncAvatars: true})
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Updated)
	assert.EqualValues(t, 0, report.Deactivated, "dry run never deactivates")
}
