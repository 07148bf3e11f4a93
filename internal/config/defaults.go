package config

import "time"

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 8080

// DefaultNavEntries returns the menu for the three built-in routes, written
// for the given routing mode.
func DefaultNavEntries(mode RoutingMode) []NavEntry {
	prefix := ""
	if mode == RoutingHash {
		prefix = "#"
	}
	return []NavEntry{
		{Href: prefix + "/libs", Label: "Libraries"},
		{Href: prefix + "/repos", Label: "Repositories"},
		{Href: prefix + "/about", Label: "About"},
	}
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  ".libsearch",
		Server:   ServerConfig{Port: DefaultPort},
		BasePath: "/app",
		Nav: NavConfig{
			RoutingMode: RoutingPath,
			ActiveClass: "on",
			Entries:     DefaultNavEntries(RoutingPath),
		},
		RenderWait:  2 * time.Second,
		MaxSessions: 1024,
	}
}
