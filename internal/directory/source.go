package directory

import "errors"

// ErrConnectorFailure marks errors caused by the upstream directory being
// unreachable or refusing the bind. A run must treat these as fatal: a dead
// upstream would otherwise look like an empty one and trigger mass
// deactivation downstream.
var ErrConnectorFailure = errors.New("directory connector failure")

// Source abstracts queries against the upstream directory.
//
// Search runs a whole-subtree search below the configured base and returns
// every matching record. An empty filter selects the source's configured
// default filter. SearchOne scopes a search to basePath and returns the first
// match, or nil without error when nothing matches.
type Source interface {
	Search(filter string, attributes []string) ([]RawRecord, error)
	SearchOne(basePath, filter string, attributes []string) (*RawRecord, error)
}
