package sync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corpintra/directory-sync/internal/avatar"
	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/hierarchy"
	"github.com/corpintra/directory-sync/internal/identity"
	"github.com/corpintra/directory-sync/internal/notify"
	"github.com/corpintra/directory-sync/internal/store"
)

type Params struct {
	DryRun      bool
	SyncAvatars bool
}

// Engine runs one full reconciliation pass: one directory fetch, one
// processing loop, one deactivation pass. The pass is strictly sequential
// because the observed-key set must reflect the entire fetch before any
// deactivation decision is made.
//
// A connector failure during fetching aborts the run before any mutation.
// Every other failure is confined to the record that raised it: the error is
// recorded against the record's handle and the loop continues.
type Engine struct {
	Source    directory.Source
	Extractor identity.Extractor
	Resolver  hierarchy.Resolver
	Avatars   avatar.Extractor
	Store     store.Store
	Notifier  notify.Notifier
	Filter    string
}

func (e *Engine) Run(params Params) *Report {
	var report = NewReport(params.DryRun)

	report.State = StateFetching
	var records, err = e.Source.Search(e.Filter, directory.SyncAttributes())
	if err != nil {
		report.Fail(err)
		return report
	}

	report.State = StateProcessing
	var observed = make([]string, 0, len(records))
	var observedSet = make(map[string]struct{}, len(records))
	for _, record := range records {
		e.processRecord(record, params, report, &observed, observedSet)
	}

	report.State = StateDeactivating
	if params.DryRun {
		report.AddChange(fmt.Sprintf("would deactivate active records absent from the %d observed keys", len(observed)))
	} else if count, err := e.Store.DeactivateMissing(observed); err != nil {
		report.Fail(err)
		return report
	} else {
		report.Deactivated = count
	}

	report.Finish()
	return report
}

func (e *Engine) processRecord(record directory.RawRecord, params Params, report *Report, observed *[]string, observedSet map[string]struct{}) {
	var handle, _ = record.Get(directory.AttrAccountName)
	defer func() {
		if cause := recover(); cause != nil {
			report.AddError(handle, fmt.Errorf("panic: %v", cause))
		}
	}()

	var ident, err = e.Extractor.Extract(record)
	if err != nil {
		if errors.Is(err, identity.ErrMissingHandle) {
			report.Skipped++
		} else {
			report.AddError(handle, err)
		}
		return
	}

	ident.Department = hierarchy.DepartmentFromPath(ident.Path)

	// An upstream manager reference that no longer resolves clears the local
	// link rather than leaving it stale.
	var managerEmail string
	if ident.ManagerPath != "" {
		if manager := e.Resolver.ResolveManager(ident.ManagerPath); manager != nil {
			managerEmail = strings.ToLower(manager.Email)
		}
	}

	var photo []byte
	if params.SyncAvatars {
		photo = e.Avatars.Extract(record)
	}

	if _, seen := observedSet[ident.Email]; !seen {
		observedSet[ident.Email] = struct{}{}
		*observed = append(*observed, ident.Email)
	}

	if params.DryRun {
		e.describeChange(ident, managerEmail, photo != nil, report)
		return
	}

	var employeeOutcome, accountOutcome store.Outcome
	if employeeOutcome, accountOutcome, err = e.Store.UpsertIdentity(ident, managerEmail, photo); err != nil {
		report.AddError(handle, err)
		return
	}

	switch {
	case employeeOutcome == store.OutcomeCreated || accountOutcome == store.OutcomeCreated:
		report.Created++
	case employeeOutcome == store.OutcomeUpdated || accountOutcome == store.OutcomeUpdated:
		report.Updated++
	}

	if employeeOutcome != store.OutcomeUnchanged {
		e.Notifier.RecordChanged(notify.RecordTypeEmployee, ident.Email)
	}
	if accountOutcome != store.OutcomeUnchanged {
		e.Notifier.RecordChanged(notify.RecordTypeAccount, ident.Email)
	}
}

func (e *Engine) describeChange(ident identity.Identity, managerEmail string, hasPhoto bool, report *Report) {
	var action = "create"
	if _, err := e.Store.FindAccountByEmail(ident.Email); err == nil {
		action = "update"
		report.Updated++
	} else {
		report.Created++
	}

	var details = fmt.Sprintf("would %s %s %s (%s), department %q", action, ident.FirstName, ident.LastName, ident.Email, ident.Department)
	if managerEmail != "" {
		details += ", manager " + managerEmail
	}
	if hasPhoto {
		details += ", with avatar"
	}
	report.AddChange(details)
}
