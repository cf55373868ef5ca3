package directory

import (
	"strings"

	"github.com/corpintra/directory-sync/internal/maputil"
)

// RawRecord is one directory entry as returned by a search: a mapping from
// attribute name to decoded string values plus the undecoded byte values the
// protocol layer carried for the same attributes. Attribute names are matched
// case-insensitively. A RawRecord is transient and owned by one sync pass.
type RawRecord struct {
	Path   string
	values map[string][]string
	raw    map[string][][]byte
}

func NewRawRecord(path string, values map[string][]string, raw map[string][][]byte) RawRecord {
	return RawRecord{
		Path:   path,
		values: maputil.LowerKeys(values),
		raw:    maputil.LowerKeys(raw),
	}
}

// Get returns the first value of the attribute, trimmed. An attribute that is
// absent or empty after trimming reports false.
func (r RawRecord) Get(name string) (string, bool) {
	for _, value := range r.values[strings.ToLower(name)] {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

func (r RawRecord) Values(name string) []string {
	return r.values[strings.ToLower(name)]
}

// AttributeNames lists the attributes present on the record, decoded or raw.
func (r RawRecord) AttributeNames() []string {
	var names = maputil.Keys(r.values)
	for name := range r.raw {
		if _, ok := r.values[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// Bytes returns the first decoded value of the attribute as a byte buffer.
func (r RawRecord) Bytes(name string) ([]byte, bool) {
	var values = r.values[strings.ToLower(name)]
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, false
	}
	return []byte(values[0]), true
}

// RawBytes returns the first undecoded value of the attribute. Sources that
// deliver binary attributes as a list of one blob are flattened here.
func (r RawRecord) RawBytes(name string) ([]byte, bool) {
	var values = r.raw[strings.ToLower(name)]
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, false
	}
	return values[0], true
}
