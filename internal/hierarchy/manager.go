package hierarchy

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/store"
)

// AccountFinder is the slice of the persistence contract the resolver needs.
type AccountFinder interface {
	FindAccountByEmail(email string) (*store.Account, error)
	FindAccountByName(firstName, lastName string) (*store.Account, error)
	FindAccountByNameContains(name string) (*store.Account, error)
}

// Resolver maps a manager directory path onto a local account.
//
// Resolution is two-tiered: a secondary directory lookup of the manager's
// email followed by a local lookup, then name matching against the leaf
// component of the path. The name tier is a heuristic: it tries both name
// orderings and substring containment and can mismatch on common names. An
// unresolvable manager is a valid outcome, not an error.
type Resolver struct {
	Source   directory.Source
	Accounts AccountFinder
	BaseDN   string
}

// ResolveManager returns the local account for managerPath, or nil when no
// tier yields a match.
func (r Resolver) ResolveManager(managerPath string) *store.Account {
	if managerPath == "" {
		return nil
	}

	if account := r.resolveByLookup(managerPath); account != nil {
		return account
	}
	return r.resolveByLeafName(managerPath)
}

func (r Resolver) resolveByLookup(managerPath string) *store.Account {
	var record, err = r.Source.SearchOne(managerPath, "(objectClass=user)", []string{directory.AttrMail, directory.AttrPrincipalName})
	if err != nil || record == nil {
		// Some directories refuse an entry DN as a search base; retry from
		// the top with an exact path filter.
		if r.BaseDN != "" {
			var filter = fmt.Sprintf("(&(objectClass=user)(%s=%s))", directory.AttrPath, ldap.EscapeFilter(managerPath))
			if record, err = r.Source.SearchOne(r.BaseDN, filter, []string{directory.AttrMail, directory.AttrPrincipalName}); err != nil {
				log.Printf("!!! manager lookup failed for %s: %v", managerPath, err)
				return nil
			}
		}
	}
	if record == nil {
		return nil
	}

	var email, ok = record.Get(directory.AttrMail)
	if !ok {
		if email, ok = record.Get(directory.AttrPrincipalName); !ok {
			return nil
		}
	}

	if account, err := r.Accounts.FindAccountByEmail(strings.ToLower(email)); err == nil {
		return account
	}
	return nil
}

func (r Resolver) resolveByLeafName(managerPath string) *store.Account {
	var leafName = PathLeafName(managerPath)
	if leafName == "" {
		return nil
	}
	var parts = strings.Fields(leafName)
	if len(parts) < 2 {
		return nil
	}

	// "First Last" then "Last First"; the leaf gives no ordering guarantee.
	if account, err := r.Accounts.FindAccountByName(parts[0], strings.Join(parts[1:], " ")); err == nil {
		return account
	}
	if account, err := r.Accounts.FindAccountByName(strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]); err == nil {
		return account
	}
	if account, err := r.Accounts.FindAccountByNameContains(leafName); err == nil {
		return account
	}
	return nil
}
