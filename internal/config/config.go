// Package config loads dmc.toml or dmc.yaml project settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Names tried in every directory, in order.
var Names = []string{"dmc.toml", "dmc.yaml", "dmc.yml"}

type Lexer struct {
	CoalesceNewlines      bool `toml:"coalesce_newlines" yaml:"coalesce_newlines"`
	AllowMixedIndentation bool `toml:"allow_mixed_indentation" yaml:"allow_mixed_indentation"`
}

type Parser struct {
	Dialect string `toml:"dialect" yaml:"dialect"`
}

type Preprocessor struct {
	Enabled     bool              `toml:"enabled" yaml:"enabled"`
	IncludeDirs []string          `toml:"include_dirs" yaml:"include_dirs"`
	Defines     map[string]string `toml:"defines" yaml:"defines"`
}

type Diagnostics struct {
	Max   int    `toml:"max" yaml:"max"`
	Color string `toml:"color" yaml:"color"` // auto|always|never
}

type Cache struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// Config is the merged project configuration. Relative include dirs are
// resolved against the directory of the file they came from.
type Config struct {
	Lexer        Lexer        `toml:"lexer" yaml:"lexer"`
	Parser       Parser       `toml:"parser" yaml:"parser"`
	Preprocessor Preprocessor `toml:"preprocessor" yaml:"preprocessor"`
	Diagnostics  Diagnostics  `toml:"diagnostics" yaml:"diagnostics"`
	Cache        Cache        `toml:"cache" yaml:"cache"`

	// Path of the loaded file, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

var (
	ErrUnknownKey   = errors.New("unknown configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
)

func Defaults() Config {
	return Config{
		Lexer:        Lexer{CoalesceNewlines: true},
		Parser:       Parser{Dialect: "script"},
		Preprocessor: Preprocessor{Enabled: true},
		Diagnostics:  Diagnostics{Max: 100, Color: "auto"},
		Cache:        Cache{Enabled: true},
	}
}

// Find walks up from startDir to locate a configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover returns the configuration governing startDir, or Defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Defaults(), err
	}
	return Load(path)
}

// Load reads one file; the format follows the extension.
func Load(path string) (Config, error) {
	// #nosec G304 -- path comes from Find or the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = DecodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = DecodeYAML(data)
	default:
		return Config{}, fmt.Errorf("%s: unsupported configuration format", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	base := filepath.Dir(path)
	for i, dir := range cfg.Preprocessor.IncludeDirs {
		if !filepath.IsAbs(dir) {
			cfg.Preprocessor.IncludeDirs[i] = filepath.Join(base, dir)
		}
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(base, cfg.Cache.Dir)
	}
	return cfg, nil
}

// DecodeTOML decodes over Defaults. Keys that are present but hold the
// zero value still override the default; an explicit empty cache.dir is an
// error rather than a request for the default.
func DecodeTOML(data []byte) (Config, error) {
	cfg := Defaults()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, undecoded[0])
	}
	if meta.IsDefined("cache", "dir") && strings.TrimSpace(cfg.Cache.Dir) == "" {
		return Config{}, fmt.Errorf("%w: cache.dir is empty", ErrInvalidValue)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeYAML decodes over Defaults; unknown keys are rejected.
func DecodeYAML(data []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return Config{}, fmt.Errorf("%w: %w", ErrUnknownKey, err)
		}
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !slices.Contains([]string{"script", "objtree", "object-tree", "dm"}, c.Parser.Dialect) {
		return fmt.Errorf("%w: parser.dialect %q", ErrInvalidValue, c.Parser.Dialect)
	}
	if !slices.Contains([]string{"auto", "always", "never", "on", "off"}, c.Diagnostics.Color) {
		return fmt.Errorf("%w: diagnostics.color %q", ErrInvalidValue, c.Diagnostics.Color)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max %d", ErrInvalidValue, c.Diagnostics.Max)
	}
	return nil
}

// CacheDir resolves the disk cache directory: the configured one, else
// $XDG_CACHE_HOME/dmc, else ~/.cache/dmc.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "dmc"), nil
}
