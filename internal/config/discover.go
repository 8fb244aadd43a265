package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SearchPaths are tried in order by Discover.
var SearchPaths = []string{
	"opinio.yaml",
	"opinio.yml",
	"opinio.toml",
	"opinio.json",
	"~/.config/opinio/config.yaml",
}

// Discover returns the first existing file of SearchPaths, or "" if none.
func Discover() string {
	for _, p := range SearchPaths {
		full, err := expandHome(p)
		if err != nil {
			continue
		}
		if exists(full) {
			return full
		}
	}
	return ""
}

// expandHome expands a leading "~" to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
