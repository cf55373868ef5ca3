package directory

import "strings"

type embeddedSource struct {
	records []RawRecord
}

// NewEmbeddedSource returns an in-memory Source. It ignores search filters and
// serves the seeded records as-is; secondary lookups match on the record path.
func NewEmbeddedSource(records ...RawRecord) Source {
	return &embeddedSource{records: records}
}

// NewEmbeddedSourceFromSettings seeds an embedded source from the entries
// configured in the settings file.
func NewEmbeddedSourceFromSettings(settings *Settings) Source {
	var records = make([]RawRecord, 0, len(settings.Entries))
	for _, entry := range settings.Entries {
		records = append(records, NewRawRecord(entry.Path, entry.Attributes, nil))
	}
	return NewEmbeddedSource(records...)
}

func (e *embeddedSource) Search(filter string, attributes []string) ([]RawRecord, error) {
	return e.records, nil
}

func (e *embeddedSource) SearchOne(basePath, filter string, attributes []string) (*RawRecord, error) {
	for _, record := range e.records {
		if strings.EqualFold(record.Path, basePath) {
			return &record, nil
		}
	}
	return nil, nil
}
