package config

import (
	"os"
	"strconv"
)

// Environment variable names for BURROW_ prefixed overrides.
const (
	// EnvHidden overrides the show_hidden option.
	EnvHidden = "BURROW_HIDDEN"
	// EnvOnlyFolders overrides the only_folders option.
	EnvOnlyFolders = "BURROW_ONLY_FOLDERS"
	// EnvSizes overrides the show_sizes option.
	EnvSizes = "BURROW_SIZES"
	// EnvGitignore overrides the respect_gitignore mode.
	EnvGitignore = "BURROW_GITIGNORE"
	// EnvHeight overrides the tree height.
	EnvHeight = "BURROW_HEIGHT"
	// EnvDebug forces debug logging (not a config field).
	EnvDebug = "BURROW_DEBUG"
	// EnvLogFormat overrides the log output format (not a config field).
	EnvLogFormat = "BURROW_LOG_FORMAT"
)

// buildEnvMap reads BURROW_* environment variables and returns a flat map
// suitable for a koanf confmap provider. Only non-empty values that parse
// successfully are included, so a malformed env var never blocks the
// resolution pipeline.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvHidden); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["show_hidden"] = b
		}
	}
	if v := os.Getenv(EnvOnlyFolders); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["only_folders"] = b
		}
	}
	if v := os.Getenv(EnvSizes); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["show_sizes"] = b
		}
	}
	if v := os.Getenv(EnvGitignore); v != "" {
		m["respect_gitignore"] = v
	}
	if v := os.Getenv(EnvHeight); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["height"] = n
		}
	}

	return m
}
