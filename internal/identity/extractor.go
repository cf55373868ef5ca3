package identity

import (
	"errors"
	"strings"

	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/stringutil"
)

// ErrMissingHandle marks records without the minimum identifying attribute.
// Such records are skipped, not treated as errors.
var ErrMissingHandle = errors.New("record has no account name")

// PlaceholderTitle is assigned when the directory carries no job title. The
// field is required by downstream display code and is never left empty.
const PlaceholderTitle = "unspecified"

// Extractor normalizes one raw directory record into an Identity. It performs
// no I/O; every field is derived from the record through an ordered fallback
// chain, taking the first source that yields a non-empty value after trimming.
type Extractor struct {
	DefaultDomain string
}

func (e Extractor) Extract(record directory.RawRecord) (Identity, error) {
	var handle, ok = record.Get(directory.AttrAccountName)
	if !ok {
		return Identity{}, ErrMissingHandle
	}

	var email = first(record, directory.AttrMail, directory.AttrPrincipalName)
	if email == "" {
		email = handle + "@" + e.DefaultDomain
	}
	email = strings.ToLower(email)

	var firstName = first(record, directory.AttrGivenName)
	var lastName = first(record, directory.AttrSurname)
	if firstName == "" || lastName == "" {
		var displayFirst, displayLast = splitDisplayName(first(record, directory.AttrDisplayName))
		if firstName == "" {
			firstName = displayFirst
		}
		if lastName == "" {
			lastName = displayLast
		}
	}
	if firstName == "" {
		firstName = handle
	}
	if lastName == "" {
		lastName = firstName
	}

	var jobTitle = first(record, directory.AttrTitle)
	if jobTitle == "" {
		jobTitle = PlaceholderTitle
	}

	var path = stringutil.FirstNonEmpty(record.Path, first(record, directory.AttrPath))

	return Identity{
		Handle:      handle,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		JobTitle:    jobTitle,
		PhoneOffice: first(record, directory.AttrPhoneOffice, directory.AttrPhoneOfficeAlt),
		PhoneMobile: first(record, directory.AttrPhoneMobile, directory.AttrPhoneMobileAlt),
		Path:        path,
		ManagerPath: first(record, directory.AttrManager),
	}, nil
}

func first(record directory.RawRecord, attributes ...string) string {
	for _, attribute := range attributes {
		if value, ok := record.Get(attribute); ok {
			return value
		}
	}
	return ""
}

func splitDisplayName(displayName string) (string, string) {
	if displayName == "" {
		return "", ""
	}
	var parts = strings.SplitN(displayName, " ", 2)
	if len(parts) == 1 {
		return strings.TrimSpace(parts[0]), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
