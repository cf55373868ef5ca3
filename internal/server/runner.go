package server

import (
	"sync/atomic"

	dirsync "github.com/corpintra/directory-sync/internal/sync"
)

// Runner serializes run triggers: one reconciliation pass at a time, with the
// last report retained for inspection.
type Runner struct {
	engine  *dirsync.Engine
	metrics *Metrics
	busy    atomic.Bool
	last    atomic.Pointer[dirsync.Report]
}

func NewRunner(engine *dirsync.Engine, metrics *Metrics) *Runner {
	return &Runner{engine: engine, metrics: metrics}
}

// Run executes one pass, or reports false when a pass is already underway.
func (r *Runner) Run(params dirsync.Params) (*dirsync.Report, bool) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	defer r.busy.Store(false)

	var report = r.engine.Run(params)
	if r.metrics != nil {
		r.metrics.Observe(report)
	}
	r.last.Store(report)
	return report, true
}

func (r *Runner) Last() *dirsync.Report {
	return r.last.Load()
}
