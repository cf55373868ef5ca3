package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/fileutil"
	"github.com/corpintra/directory-sync/settings"
)

// ldapdump prints which synchronization attributes each directory entry
// actually carries. Useful when a new forest delivers photos or phone numbers
// under unexpected attributes.
func main() {
	var (
		configFilename string
		filter         string
		showValues     bool
	)

	log.SetOutput(os.Stdout)

	flag.StringVar(&configFilename, "config", "", "config file name")
	flag.StringVar(&filter, "filter", "", "override search filter")
	flag.BoolVar(&showValues, "values", false, "print attribute values, not just presence")
	flag.Parse()

	godotenv.Load()

	cfg, err := settings.Load(fileutil.ProbeSettingsFilename(configFilename))
	if err != nil {
		panic(err)
	}
	if cfg.Directory == nil {
		panic("no directory configured")
	}
	if bindPassword := os.Getenv("LDAP_BIND_PASSWORD"); bindPassword != "" {
		cfg.Directory.BindPassword = bindPassword
	}

	source, err := directory.NewLdapSource(cfg.Directory)
	if err != nil {
		panic(err)
	}

	if filter == "" {
		filter = cfg.Directory.EffectiveFilter()
	}

	records, err := source.Search(filter, directory.SyncAttributes())
	if err != nil {
		panic(err)
	}

	for _, record := range records {
		fmt.Println(record.Path)
		var names = record.AttributeNames()
		sort.Strings(names)
		for _, name := range names {
			if showValues {
				fmt.Printf("  %s: %v\n", name, record.Values(name))
			} else {
				fmt.Printf("  %s\n", name)
			}
		}
	}
	fmt.Printf("%d entries\n", len(records))
}
