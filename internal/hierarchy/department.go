package hierarchy

import "strings"

// UnassignedDepartment is the final fallback; a record never ends up without a
// department name.
const UnassignedDepartment = "Unassigned"

// Generic structural containers that never denote an organizational unit of
// interest. The French spellings come from the upstream directory layout.
var genericContainers = map[string]struct{}{
	"users":              {},
	"utilisateurs":       {},
	"userswifi":          {},
	"computers":          {},
	"groups":             {},
	"domain controllers": {},
}

// DepartmentFromPath derives a department name from a directory path such as
// CN=Jane Smith,OU=Engineering,OU=Users,DC=example,DC=org. Components are read
// most-specific-first; the first organizational component not on the generic
// deny-list wins, falling back to UnassignedDepartment. The derivation is pure
// and idempotent.
func DepartmentFromPath(path string) string {
	for _, unit := range organizationalUnits(path) {
		if !isGeneric(unit) {
			return unit
		}
	}
	return UnassignedDepartment
}

// PathLeafName extracts the common-name leaf of a directory path, e.g.
// "Jane Smith" from CN=Jane Smith,OU=...,DC=... Returns "" when the path has
// no CN component.
func PathLeafName(path string) string {
	for _, part := range strings.Split(path, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 3 && strings.EqualFold(part[:3], "CN=") {
			return strings.TrimSpace(part[3:])
		}
	}
	return ""
}

func organizationalUnits(path string) []string {
	var units []string
	for _, part := range strings.Split(path, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 3 && strings.EqualFold(part[:3], "OU=") {
			units = append(units, strings.TrimSpace(part[3:]))
		}
	}
	return units
}

func isGeneric(unit string) bool {
	var _, found = genericContainers[strings.ToLower(unit)]
	return found
}
