package store

import "github.com/corpintra/directory-sync/internal/identity"

// Store is the reconciliation contract against local persistence.
//
// UpsertIdentity writes one normalized identity into both projections, keyed
// by email, and reports the outcome per projection. An upsert always forces
// active, since presence upstream reactivates. A nil avatar leaves any stored
// avatar untouched; managerEmail "" clears a stale manager link. The dual
// write is atomic per record.
//
// DeactivateMissing flips active records whose email is absent from the
// observed set to inactive and returns how many were flipped. Nothing is ever
// deleted.
type Store interface {
	UpsertIdentity(ident identity.Identity, managerEmail string, avatar []byte) (Outcome, Outcome, error)
	DeactivateMissing(observed []string) (int64, error)
	FindAccountByEmail(email string) (*Account, error)
	FindAccountByName(firstName, lastName string) (*Account, error)
	FindAccountByNameContains(name string) (*Account, error)
	Ping() error
}
