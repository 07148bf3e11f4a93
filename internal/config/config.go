package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: LIBSEARCH_SERVER__PORT sets server.port.
const EnvPrefix = "LIBSEARCH_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LIBSEARCH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg.Nav.Entries = nil
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// A file that switches routing mode but keeps the default menu gets
	// the menu rewritten for that mode.
	if !k.Exists("nav.entries") {
		cfg.Nav.Entries = DefaultNavEntries(cfg.Nav.RoutingMode)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DatabasePath is where the catalog database lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "libsearch.db")
}

// ResolvedAPIBaseURL returns APIBaseURL, defaulting to this server itself.
func (c *Config) ResolvedAPIBaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

var validRoutingModes = map[RoutingMode]bool{
	RoutingPath: true,
	RoutingHash: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !validRoutingModes[c.Nav.RoutingMode] {
		return fmt.Errorf("invalid nav.routing_mode %q: must be path or hash", c.Nav.RoutingMode)
	}
	if strings.ContainsAny(c.Nav.ActiveClass, " \t\n") {
		return fmt.Errorf("nav.active_class %q must be a single class name", c.Nav.ActiveClass)
	}
	for i, e := range c.Nav.Entries {
		if e.Href == "" {
			return fmt.Errorf("nav.entries[%d]: href is required", i)
		}
	}
	if c.BasePath == "" {
		return fmt.Errorf("base_path is required")
	}
	if c.BasePath == "/" || !strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("base_path %q must start with / and not end with /", c.BasePath)
	}
	if c.RenderWait < 0 {
		return fmt.Errorf("render_wait must be non-negative")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1")
	}
	return nil
}
