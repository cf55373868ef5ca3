package sync

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateProcessing   State = "processing"
	StateDeactivating State = "deactivating"
	StateReported     State = "reported"
	StateFailed       State = "failed"
)

type RecordError struct {
	Handle  string `json:"handle"`
	Message string `json:"message"`
}

// Report is the sole output of a run. It distinguishes "zero changes because
// nothing changed upstream" (reported, zero counters, no failure) from "zero
// changes because the run failed early" (failed, top-level failure) from "N
// changes plus M errors" (reported, non-empty errors). It is produced even
// when fetching failed.
type Report struct {
	RunID       string        `json:"run_id"`
	DryRun      bool          `json:"dry_run,omitempty"`
	State       State         `json:"state"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Deactivated int64         `json:"deactivated"`
	Skipped     int           `json:"skipped"`
	Errors      []RecordError `json:"errors,omitempty"`
	Failure     string        `json:"failure,omitempty"`
	Changes     []string      `json:"changes,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at,omitempty"`
}

func NewReport(dryRun bool) *Report {
	return &Report{
		RunID:     ulid.Make().String(),
		DryRun:    dryRun,
		State:     StateIdle,
		StartedAt: time.Now(),
	}
}

func (r *Report) AddError(handle string, err error) {
	r.Errors = append(r.Errors, RecordError{Handle: handle, Message: err.Error()})
}

func (r *Report) AddChange(change string) {
	r.Changes = append(r.Changes, change)
}

func (r *Report) Fail(err error) {
	r.State = StateFailed
	r.Failure = err.Error()
	r.FinishedAt = time.Now()
}

func (r *Report) Finish() {
	r.State = StateReported
	r.FinishedAt = time.Now()
}

func (r *Report) Failed() bool {
	return r.State == StateFailed
}

func (r *Report) HasRecordErrors() bool {
	return len(r.Errors) > 0
}
