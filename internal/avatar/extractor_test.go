package avatar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corpintra/directory-sync/internal/directory"
)

var validJPEG = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x42}, 200)...)
var validPNG = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x42}, 200)...)

const entryPath = "CN=Jane Smith,OU=Engineering,DC=example,DC=org"

func TestExtractFromBulkDecoded(t *testing.T) {
	var extractor = Extractor{Source: directory.NewEmbeddedSource()}
	var record = directory.NewRawRecord(entryPath, map[string][]string{
		"thumbnailPhoto": {string(validJPEG)},
	}, nil)

	assert.Equal(t, validJPEG, extractor.Extract(record))
}

func TestExtractFromBulkRaw(t *testing.T) {
	var extractor = Extractor{Source: directory.NewEmbeddedSource()}
	var record = directory.NewRawRecord(entryPath, nil, map[string][][]byte{
		"thumbnailPhoto": {validPNG},
	})

	assert.Equal(t, validPNG, extractor.Extract(record))
}

func TestExtractFromRefetch(t *testing.T) {
	// The bulk record carries no photo; the extractor re-fetches the entry by
	// its path and reads the photo from the dedicated result.
	var source = directory.NewEmbeddedSource(directory.NewRawRecord(entryPath, nil, map[string][][]byte{
		"thumbnailPhoto": {validJPEG},
	}))
	var extractor = Extractor{Source: source}
	var record = directory.NewRawRecord(entryPath, map[string][]string{
		"sAMAccountName": {"jsmith"},
	}, nil)

	assert.Equal(t, validJPEG, extractor.Extract(record))
}

func TestExtractRejectsInvalidData(t *testing.T) {
	var extractor = Extractor{Source: directory.NewEmbeddedSource()}

	t.Run("too small", func(t *testing.T) {
		var record = directory.NewRawRecord(entryPath, map[string][]string{
			"thumbnailPhoto": {string([]byte{0xff, 0xd8, 0x00})},
		}, nil)
		assert.Nil(t, extractor.Extract(record))
	})

	t.Run("unknown signature", func(t *testing.T) {
		var record = directory.NewRawRecord(entryPath, map[string][]string{
			"thumbnailPhoto": {string(bytes.Repeat([]byte{0x42}, 300))},
		}, nil)
		assert.Nil(t, extractor.Extract(record))
	})

	t.Run("no photo at all", func(t *testing.T) {
		var record = directory.NewRawRecord(entryPath, map[string][]string{
			"sAMAccountName": {"jsmith"},
		}, nil)
		assert.Nil(t, extractor.Extract(record))
	})
}

func TestExtractInvalidBulkFallsThroughToRefetch(t *testing.T) {
	// A truncated bulk value must not shadow a valid photo served by the
	// re-fetch.
	var source = directory.NewEmbeddedSource(directory.NewRawRecord(entryPath, nil, map[string][][]byte{
		"thumbnailPhoto": {validJPEG},
	}))
	var extractor = Extractor{Source: source}
	var record = directory.NewRawRecord(entryPath, map[string][]string{
		"thumbnailPhoto": {string([]byte{0xff, 0xd8})},
	}, nil)

	assert.Equal(t, validJPEG, extractor.Extract(record))
}

func TestExtractHonorsMinSize(t *testing.T) {
	var extractor = Extractor{Source: directory.NewEmbeddedSource(), MinSize: 1000}
	var record = directory.NewRawRecord(entryPath, map[string][]string{
		"thumbnailPhoto": {string(validJPEG)},
	}, nil)

	assert.Nil(t, extractor.Extract(record), "204 bytes is below the configured minimum")
}
