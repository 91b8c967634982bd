package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

// Source identifies which layer supplied a resolved config value.
type Source string

// Resolution layers, lowest precedence first.
const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceRepo    Source = "repo"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// SourceMap records, per config key, the layer its final value came from.
type SourceMap map[string]Source

// ResolveOptions configures the multi-source configuration resolution.
type ResolveOptions struct {
	// StartDir is the directory to search for burrow.toml. Defaults to ".".
	StartDir string

	// GlobalConfigPath overrides ~/.config/burrow/config.toml, for tests.
	GlobalConfigPath string

	// CLIFlags holds explicit CLI overrides (highest precedence). Keys are
	// flat config keys: "show_hidden", "height", "exclude", ...
	CLIFlags map[string]any
}

// Resolved is the outcome of configuration resolution.
type Resolved struct {
	Config  *Config
	Sources SourceMap
}

// Resolve runs the 5-layer configuration resolution pipeline:
//
//  1. Built-in defaults
//  2. Global config (~/.config/burrow/config.toml)
//  3. Repo-local config (burrow.toml in StartDir)
//  4. Environment variables (BURROW_* prefix)
//  5. CLI flags
//
// Missing config files are silently ignored; invalid files return errors.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	slog.Debug("resolving config", "startDir", opts.StartDir)

	k := koanf.New(".")
	sources := make(SourceMap)

	if err := loadLayer(k, configToFlatMap(Default()), sources, SourceDefault); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			globalPath = filepath.Join(home, ".config", "burrow", "config.toml")
		}
	}
	if globalPath != "" {
		if err := loadFileLayer(k, globalPath, sources, SourceGlobal); err != nil {
			return nil, err
		}
	}

	startDir := opts.StartDir
	if startDir == "" {
		startDir = "."
	}
	if err := loadFileLayer(k, filepath.Join(startDir, "burrow.toml"), sources, SourceRepo); err != nil {
		return nil, err
	}

	if err := loadLayer(k, buildEnvMap(), sources, SourceEnv); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := loadLayer(k, opts.CLIFlags, sources, SourceFlag); err != nil {
		return nil, fmt.Errorf("loading CLI flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling resolved config: %w", err)
	}

	return &Resolved{Config: &cfg, Sources: sources}, nil
}

// loadLayer merges a flat key map into the koanf instance and records the
// layer as the source of every key it sets.
func loadLayer(k *koanf.Koanf, m map[string]any, sources SourceMap, src Source) error {
	if len(m) == 0 {
		return nil
	}
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return err
	}
	for key := range m {
		sources[key] = src
	}
	return nil
}

// loadFileLayer reads a TOML config file into the koanf instance, keeping
// only the keys the file actually defines. A missing file is not an error.
func loadFileLayer(k *koanf.Koanf, path string, sources SourceMap, src Source) error {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	warnUndecodedKeys(meta, path)

	flat := configToFlatMap(&cfg)
	for key := range flat {
		if !meta.IsDefined(key) {
			delete(flat, key)
		}
	}
	return loadLayer(k, flat, sources, src)
}

// configToFlatMap flattens a Config into the key space the resolver works
// in. Keys match the koanf/toml tags.
func configToFlatMap(c *Config) map[string]any {
	return map[string]any{
		"show_hidden":       c.ShowHidden,
		"only_folders":      c.OnlyFolders,
		"show_sizes":        c.ShowSizes,
		"respect_gitignore": c.RespectGitignore,
		"height":            c.Height,
		"exclude":           c.Exclude,
	}
}
