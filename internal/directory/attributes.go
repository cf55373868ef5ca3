package directory

// Attribute names used by the synchronization pass. These follow the Active
// Directory schema of the upstream source.
const (
	AttrAccountName    = "sAMAccountName"
	AttrMail           = "mail"
	AttrPrincipalName  = "userPrincipalName"
	AttrGivenName      = "givenName"
	AttrSurname        = "sn"
	AttrDisplayName    = "displayName"
	AttrTitle          = "title"
	AttrPhoneOffice    = "telephoneNumber"
	AttrPhoneOfficeAlt = "ipPhone"
	AttrPhoneMobile    = "mobile"
	AttrPhoneMobileAlt = "otherTelephone"
	AttrManager        = "manager"
	AttrPath           = "distinguishedName"
	AttrPhoto          = "thumbnailPhoto"
)

// SyncAttributes is the attribute set requested by a bulk synchronization
// search.
func SyncAttributes() []string {
	return []string{
		AttrAccountName,
		AttrMail,
		AttrPrincipalName,
		AttrGivenName,
		AttrSurname,
		AttrDisplayName,
		AttrTitle,
		AttrPhoneOffice,
		AttrPhoneOfficeAlt,
		AttrPhoneMobile,
		AttrPhoneMobileAlt,
		AttrManager,
		AttrPath,
		AttrPhoto,
	}
}
