package settings

import (
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"

	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/notify"
	"github.com/corpintra/directory-sync/internal/store"
)

type Settings struct {
	Port          int                  `json:"port"`
	DefaultDomain string               `json:"default_domain"`
	AvatarMinSize int                  `json:"avatar_min_size,omitempty"`
	Directory     *directory.Settings  `json:"directory,omitempty"`
	Store         *store.StoreSettings `json:"store,omitempty"`
	Notifier      *notify.Settings     `json:"notifier,omitempty"`
}

func NewDefault() *Settings {
	return &Settings{
		Port:          1979,
		DefaultDomain: "example.com",
	}
}

// Load reads filename over the defaults. A missing file is not an error: the
// defaults stand and -save can write them out as a starting point.
func Load(filename string) (*Settings, error) {
	var settings = NewDefault()

	var configBytes, err = os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}
	if err = hjson.Unmarshal(configBytes, settings); err != nil {
		return nil, fmt.Errorf("malformed settings file %s: %w", filename, err)
	}
	return settings, nil
}

func (s *Settings) Save(filename string) error {
	var configBytes, err = hjson.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, configBytes, 0644)
}
