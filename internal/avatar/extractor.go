package avatar

import (
	"github.com/corpintra/directory-sync/internal/directory"
)

// DefaultMinSize rejects near-empty payloads that some directory servers
// return for a cleared photo attribute.
const DefaultMinSize = 100

// Extractor pulls a profile photo out of a raw record. The upstream delivers
// binary photo attributes in several shapes depending on how the entry was
// fetched, so extraction is an ordered chain of strategies tried until one
// yields data: the decoded bulk attribute, the undecoded bulk attribute, then
// the undecoded and decoded buckets of a dedicated single-entry re-fetch by
// the record's path. The re-fetch is performed at most once.
type Extractor struct {
	Source  directory.Source
	MinSize int
}

type strategy func(record directory.RawRecord, refetch func() *directory.RawRecord) ([]byte, bool)

var strategies = []strategy{
	fromBulkDecoded,
	fromBulkRaw,
	fromRefetchRaw,
	fromRefetchDecoded,
}

// Extract returns a validated photo buffer, or nil when no strategy yields
// usable image data. Invalid payloads are discarded, never propagated; a bad
// avatar must not block the rest of the record's reconciliation.
func (e Extractor) Extract(record directory.RawRecord) []byte {
	var fetched *directory.RawRecord
	var fetchedOnce bool
	var refetch = func() *directory.RawRecord {
		if !fetchedOnce {
			fetchedOnce = true
			fetched, _ = e.Source.SearchOne(record.Path, "(objectClass=user)", []string{directory.AttrPhoto})
		}
		return fetched
	}

	var minSize = e.MinSize
	if minSize <= 0 {
		minSize = DefaultMinSize
	}

	for _, extract := range strategies {
		if data, ok := extract(record, refetch); ok && validImage(data, minSize) {
			return data
		}
	}
	return nil
}

func fromBulkDecoded(record directory.RawRecord, _ func() *directory.RawRecord) ([]byte, bool) {
	return record.Bytes(directory.AttrPhoto)
}

func fromBulkRaw(record directory.RawRecord, _ func() *directory.RawRecord) ([]byte, bool) {
	return record.RawBytes(directory.AttrPhoto)
}

func fromRefetchRaw(_ directory.RawRecord, refetch func() *directory.RawRecord) ([]byte, bool) {
	if record := refetch(); record != nil {
		return record.RawBytes(directory.AttrPhoto)
	}
	return nil, false
}

func fromRefetchDecoded(_ directory.RawRecord, refetch func() *directory.RawRecord) ([]byte, bool) {
	if record := refetch(); record != nil {
		return record.Bytes(directory.AttrPhoto)
	}
	return nil, false
}
