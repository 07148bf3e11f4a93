package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to libsearch! Let's configure your catalog.")
	fmt.Println()

	cfg := DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(DefaultPort),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	modePrompt := promptui.Select{
		Label: "Menu routing mode",
		Items: []string{
			"path — links like /libs",
			"hash — links like #/libs",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("routing mode selection: %w", err)
	}
	cfg.Nav.RoutingMode = []RoutingMode{RoutingPath, RoutingHash}[modeIdx]
	cfg.Nav.Entries = DefaultNavEntries(cfg.Nav.RoutingMode)

	classPrompt := promptui.Prompt{
		Label:   "CSS class for the active menu entry",
		Default: cfg.Nav.ActiveClass,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" || strings.ContainsAny(strings.TrimSpace(s), " \t") {
				return fmt.Errorf("enter a single class name")
			}
			return nil
		},
	}
	class, err := classPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("active class prompt: %w", err)
	}
	cfg.Nav.ActiveClass = strings.TrimSpace(class)

	dirPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data directory prompt: %w", err)
	}
	if dir = strings.TrimSpace(dir); dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Println("Next: `libsearch import catalog.yml` then `libsearch server`.")
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
