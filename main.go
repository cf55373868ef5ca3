package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corpintra/directory-sync/internal/avatar"
	"github.com/corpintra/directory-sync/internal/directory"
	"github.com/corpintra/directory-sync/internal/fileutil"
	"github.com/corpintra/directory-sync/internal/hierarchy"
	"github.com/corpintra/directory-sync/internal/identity"
	"github.com/corpintra/directory-sync/internal/notify"
	"github.com/corpintra/directory-sync/internal/server"
	"github.com/corpintra/directory-sync/internal/store"
	dirsync "github.com/corpintra/directory-sync/internal/sync"
	"github.com/corpintra/directory-sync/settings"
)

var version = "dev"

func main() {
	var err error
	var configFilename string
	var saveConfig, serve, dryRun, noAvatars bool

	log.SetOutput(os.Stdout)

	flag.StringVar(&configFilename, "config", "", "config file name")
	flag.BoolVar(&saveConfig, "save", false, "save config and exit")
	flag.BoolVar(&serve, "serve", false, "listen for sync triggers over HTTP instead of running once")
	flag.BoolVar(&dryRun, "dry-run", false, "describe changes without applying them")
	flag.BoolVar(&noAvatars, "no-avatars", false, "skip avatar extraction")
	flag.Parse()

	godotenv.Load()

	configFilename = fileutil.ProbeSettingsFilename(configFilename)

	cfg, err := settings.Load(configFilename)
	if err != nil {
		panic(err)
	}

	if bindPassword := os.Getenv("LDAP_BIND_PASSWORD"); bindPassword != "" && cfg.Directory != nil {
		cfg.Directory.BindPassword = bindPassword
	}

	if saveConfig {
		log.Printf("Saving config file %s", configFilename)
		if err := cfg.Save(configFilename); err != nil {
			panic(err)
		}
		os.Exit(0)
	}

	var source directory.Source
	var filter string
	var baseDN string
	if cfg.Directory != nil {
		filter = cfg.Directory.EffectiveFilter()
		baseDN = cfg.Directory.BaseDN
		if strings.HasPrefix(cfg.Directory.URI, "ldap:") || strings.HasPrefix(cfg.Directory.URI, "ldaps:") {
			if source, err = directory.NewLdapSource(cfg.Directory); err != nil {
				panic(err)
			}
		} else if cfg.Directory.URI == "" {
			source = directory.NewEmbeddedSourceFromSettings(cfg.Directory)
		} else {
			panic(errors.New("unsupported directory uri: " + cfg.Directory.URI))
		}
	} else {
		source = directory.NewEmbeddedSource()
	}

	var dataStore store.Store
	if cfg.Store != nil {
		if strings.HasPrefix(cfg.Store.URI, "postgresql:") {
			if dataStore, err = store.NewSqlStore(cfg.Store); err != nil {
				panic(err)
			}
		} else {
			panic(errors.New("unsupported or empty store uri: " + cfg.Store.URI))
		}
	} else {
		dataStore = store.NewEmbeddedStore()
	}

	var notifier notify.Notifier
	if cfg.Notifier != nil && strings.HasPrefix(cfg.Notifier.URI, "amqp") {
		if notifier, err = notify.NewRabbitNotifier(cfg.Notifier); err != nil {
			panic(err)
		}
	} else {
		notifier = notify.NewNoopNotifier()
	}
	defer notifier.Close()

	var engine = &dirsync.Engine{
		Source:    source,
		Extractor: identity.Extractor{DefaultDomain: cfg.DefaultDomain},
		Resolver:  hierarchy.Resolver{Source: source, Accounts: dataStore, BaseDN: baseDN},
		Avatars:   avatar.Extractor{Source: source, MinSize: cfg.AvatarMinSize},
		Store:     dataStore,
		Notifier:  notifier,
		Filter:    filter,
	}

	if !serve {
		runOnce(engine, dirsync.Params{DryRun: dryRun, SyncAvatars: !noAvatars})
		return
	}

	var registry = prometheus.NewRegistry()
	var runner = server.NewRunner(engine, server.NewMetrics(registry))

	var router = mux.NewRouter()
	router.Handle("/sync", server.SyncHandler(runner)).
		Methods(http.MethodPost)
	router.Handle("/sync/last", server.LastReportHandler(runner)).
		Methods(http.MethodGet)
	router.Handle("/health", server.HealthHandler(dataStore)).
		Methods(http.MethodGet)
	router.Handle("/info", server.InfoHandler(version, runtime.Version())).
		Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	log.Printf("Listening on http://localhost:%d/", cfg.Port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router)
	if err != nil {
		panic(err)
	}
}

// runOnce executes a single pass and exits: 0 when clean, 1 when the run
// aborted, 2 when it completed with per-record errors.
func runOnce(engine *dirsync.Engine, params dirsync.Params) {
	var report = engine.Run(params)

	var reportJson, _ = json.MarshalIndent(report, "", "  ")
	fmt.Println(string(reportJson))

	if report.Failed() {
		log.Printf("!!! run %s failed: %s", report.RunID, report.Failure)
		os.Exit(1)
	}
	if report.HasRecordErrors() {
		log.Printf("run %s completed with %d record errors", report.RunID, len(report.Errors))
		os.Exit(2)
	}
}
