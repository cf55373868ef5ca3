package directory

import (
	"fmt"
	"strings"
)

type Settings struct {
	URI             string          `json:"uri,omitempty"`
	BaseDN          string          `json:"base_dn,omitempty"`
	Filter          string          `json:"filter,omitempty"`
	ExtraExclusions []string        `json:"extra_exclusions,omitempty"`
	BindPassword    string          `json:"bind_password,omitempty"`
	ConnectTimeout  int             `json:"connect_timeout,omitempty"`
	TimeLimit       int             `json:"time_limit,omitempty"`
	PageSize        int             `json:"page_size,omitempty"`
	Entries         []EmbeddedEntry `json:"entries,omitempty"`
}

// EmbeddedEntry seeds the embedded source from the settings file.
type EmbeddedEntry struct {
	Path       string              `json:"path"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// Account name patterns excluded by the default filter: machine accounts,
// Exchange health mailboxes, IIS, Microsoft Online and AAD Connect service
// accounts, and the built-in administrator.
var defaultExclusions = []string{
	"HealthMailbox*",
	"IUSR_*",
	"IWAM_*",
	"MSOL_*",
	"AAD_*",
	"ASPNET",
	"Administrator",
}

// DefaultFilter selects enabled human accounts and excludes the default
// non-human name patterns plus any extra exclusions.
func DefaultFilter(extraExclusions []string) string {
	var sb strings.Builder
	sb.WriteString("(&(objectClass=user)(objectCategory=person)")
	sb.WriteString("(!(userAccountControl:1.2.840.113556.1.4.803:=2))")
	sb.WriteString("(!(sAMAccountName=*$))")
	for _, pattern := range defaultExclusions {
		fmt.Fprintf(&sb, "(!(sAMAccountName=%s))", pattern)
	}
	for _, pattern := range extraExclusions {
		fmt.Fprintf(&sb, "(!(sAMAccountName=%s))", pattern)
	}
	sb.WriteString(")")
	return sb.String()
}

func (s *Settings) EffectiveFilter() string {
	if s.Filter != "" {
		return s.Filter
	}
	return DefaultFilter(s.ExtraExclusions)
}
