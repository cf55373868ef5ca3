package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilter(t *testing.T) {
	var filter = DefaultFilter([]string{"svc.backup*"})

	assert.Contains(t, filter, "(objectClass=user)")
	assert.Contains(t, filter, "(objectCategory=person)")
	assert.Contains(t, filter, "(!(userAccountControl:1.2.840.113556.1.4.803:=2))", "disabled accounts are excluded")
	assert.Contains(t, filter, "(!(sAMAccountName=*$))", "machine accounts are excluded")
	assert.Contains(t, filter, "(!(sAMAccountName=HealthMailbox*))")
	assert.Contains(t, filter, "(!(sAMAccountName=svc.backup*))")
}

func TestEffectiveFilter(t *testing.T) {
	var settings = &Settings{Filter: "(objectClass=inetOrgPerson)"}
	assert.Equal(t, "(objectClass=inetOrgPerson)", settings.EffectiveFilter(), "an explicit filter wins")

	settings = &Settings{}
	assert.Equal(t, DefaultFilter(nil), settings.EffectiveFilter())
}
