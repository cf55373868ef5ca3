package maputil

import "strings"

func LowerKeys[T any](m map[string]T) map[string]T {
	var lowerMap = make(map[string]T, len(m))
	for key, value := range m {
		lowerMap[strings.ToLower(key)] = value
	}
	return lowerMap
}

func Keys[T any](m map[string]T) []string {
	var keys = make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
