package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/libsearch/internal/catalog"
	"github.com/ziadkadry99/libsearch/internal/config"
	"github.com/ziadkadry99/libsearch/internal/db"
	"github.com/ziadkadry99/libsearch/internal/nav"
	"github.com/ziadkadry99/libsearch/internal/web"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `libsearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openCatalog opens the configured database and returns a store over it.
// The caller closes the returned database.
func openCatalog(cfg *config.Config) (*db.DB, *catalog.Store, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, catalog.NewStore(database), nil
}

// navConfig translates the menu settings for the highlighter.
func navConfig(cfg *config.Config) nav.Config {
	mode := nav.ModePath
	if cfg.Nav.RoutingMode == config.RoutingHash {
		mode = nav.ModeHash
	}
	return nav.Config{Mode: mode, ActiveClass: cfg.Nav.ActiveClass}
}

func menuEntries(cfg *config.Config) []web.MenuEntry {
	out := make([]web.MenuEntry, len(cfg.Nav.Entries))
	for i, e := range cfg.Nav.Entries {
		out[i] = web.MenuEntry{Href: e.Href, Label: e.Label}
	}
	return out
}

// readAbout returns the configured about markdown, or nil for the default.
func readAbout(cfg *config.Config) ([]byte, error) {
	if cfg.AboutFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cfg.AboutFile)
	if err != nil {
		return nil, fmt.Errorf("reading about file: %w", err)
	}
	return data, nil
}
