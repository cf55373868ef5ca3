package stringutil

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

func IsAnyEmpty(strings ...string) bool {
	for _, s := range strings {
		if s == "" {
			return true
		}
	}
	return false
}

// FirstNonEmpty returns the first argument that is non-empty after trimming
// surrounding whitespace, or "".
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func RandomBytesString(max int) string {
	var bytes = make([]byte, max)

	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes)
}
