// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// Dir returns the application's configuration directory.
func Dir() string {
	return ExpandPath("~/.config/grana")
}

// DefaultDatabasePath returns where the SQLite database lives unless the user
// configures otherwise.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/grana/grana.db")
}
