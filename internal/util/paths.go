package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the skillvault configuration directory. The
// SKILLVAULT_CONFIG_DIR environment variable overrides the default
// ~/.skillvault location.
func ConfigDir() string {
	if dir := os.Getenv("SKILLVAULT_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(HomeDir(), ".skillvault")
}

// ExpandPath expands a leading ~ to the home directory and resolves
// relative paths against baseDir. Empty input returns empty.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}

// ExpandPaths applies ExpandPath to each path, dropping empty results.
func ExpandPaths(paths []string, baseDir string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if expanded := ExpandPath(p, baseDir); expanded != "" {
			out = append(out, expanded)
		}
	}
	return out
}
