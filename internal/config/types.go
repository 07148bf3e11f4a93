package config

import "time"

// RoutingMode selects how menu hrefs map to route paths.
type RoutingMode string

const (
	RoutingPath RoutingMode = "path"
	RoutingHash RoutingMode = "hash"
)

// Config is the top-level libsearch configuration, corresponding to .libsearch.yml.
type Config struct {
	DataDir     string        `yaml:"data_dir" koanf:"data_dir"`
	Server      ServerConfig  `yaml:"server" koanf:"server"`
	APIBaseURL  string        `yaml:"api_base_url" koanf:"api_base_url"`
	BasePath    string        `yaml:"base_path" koanf:"base_path"`
	Nav         NavConfig     `yaml:"nav" koanf:"nav"`
	AboutFile   string        `yaml:"about_file" koanf:"about_file"`
	RenderWait  time.Duration `yaml:"render_wait" koanf:"render_wait"`
	MaxSessions int           `yaml:"max_sessions" koanf:"max_sessions"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// NavConfig describes the navigation menu and how it is highlighted.
type NavConfig struct {
	RoutingMode RoutingMode `yaml:"routing_mode" koanf:"routing_mode"`
	ActiveClass string      `yaml:"active_class" koanf:"active_class"`
	Entries     []NavEntry  `yaml:"entries" koanf:"entries"`
}

// NavEntry is one menu link.
type NavEntry struct {
	Href  string `yaml:"href" koanf:"href"`
	Label string `yaml:"label" koanf:"label"`
}
