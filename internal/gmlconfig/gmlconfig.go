// Package gmlconfig provides configuration loading for the gml tools.
//
// Configuration lives in a gml.toml file, discovered by walking up the
// directory tree from the project directory. The GML_CONFIG environment
// variable or a --config flag on individual tools overrides discovery.
package gmlconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename/casing"
)

// ConfigTOML is the config filename.
const ConfigTOML = "gml.toml"

// EnvConfig is the environment variable for specifying the config file path.
const EnvConfig = "GML_CONFIG"

// Config is the unified gml tools configuration.
type Config struct {
	// Casing configures the rename planner.
	Casing CasingConfig `toml:"casing"`

	// Index configures project indexing.
	Index IndexConfig `toml:"index"`

	// Watch configures watch mode.
	Watch WatchConfig `toml:"watch"`
}

// CasingConfig selects target casing styles per identifier category.
type CasingConfig struct {
	// Rules maps identifier categories (local, parameter, function,
	// global, instance, enum, enum-member, macro) to styles (camel,
	// pascal, snake, screaming-snake).
	Rules map[string]string `toml:"rules"`

	// Assets maps resource categories (sprite, object, sound, room,
	// script, font, tileset, path, shader) to styles.
	Assets map[string]string `toml:"assets"`

	// AcknowledgeAssetRenames includes asset renames in the applicable
	// plan.
	AcknowledgeAssetRenames bool `toml:"acknowledge_asset_renames"`
}

// IndexConfig controls project indexing.
type IndexConfig struct {
	// Ignore is a list of path globs excluded from scanning.
	Ignore []string `toml:"ignore"`

	// ContentHash fingerprints files by content instead of size+mtime.
	ContentHash bool `toml:"content_hash"`

	// Workers bounds the parse worker pool. Zero means one per CPU.
	Workers int `toml:"workers"`

	// DisableCache turns the on-disk fragment cache off.
	DisableCache bool `toml:"disable_cache"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce is the quiet period before a rebuild (e.g. "250ms").
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML string parsing.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// DefaultConfig returns a Config matching conventional GameMaker style.
func DefaultConfig() *Config {
	policy := rename.DefaultPolicy()
	rules := map[string]string{}
	for cat, style := range policy.Rules {
		rules[string(cat)] = string(style)
	}
	assets := map[string]string{}
	for cat, style := range policy.Assets {
		assets[string(cat)] = string(style)
	}
	return &Config{
		Casing: CasingConfig{Rules: rules, Assets: assets},
	}
}

// Policy converts the casing section into a planner policy, validating
// every category and style name.
func (c *Config) Policy() (rename.CasingPolicy, error) {
	policy := rename.CasingPolicy{
		Rules:                   map[index.Category]casing.Style{},
		Assets:                  map[index.ResourceCategory]casing.Style{},
		AcknowledgeAssetRenames: c.Casing.AcknowledgeAssetRenames,
	}
	for cat, styleName := range c.Casing.Rules {
		if !validCategory(cat) {
			return rename.CasingPolicy{}, fmt.Errorf("unknown identifier category %q in [casing.rules]", cat)
		}
		style, err := casing.ParseStyle(styleName)
		if err != nil {
			return rename.CasingPolicy{}, fmt.Errorf("[casing.rules] %s: %w", cat, err)
		}
		policy.Rules[index.Category(cat)] = style
	}
	for cat, styleName := range c.Casing.Assets {
		if !validResourceCategory(cat) {
			return rename.CasingPolicy{}, fmt.Errorf("unknown resource category %q in [casing.assets]", cat)
		}
		style, err := casing.ParseStyle(styleName)
		if err != nil {
			return rename.CasingPolicy{}, fmt.Errorf("[casing.assets] %s: %w", cat, err)
		}
		policy.Assets[index.ResourceCategory(cat)] = style
	}
	return policy, nil
}

func validCategory(cat string) bool {
	switch index.Category(cat) {
	case index.CategoryLocal, index.CategoryParameter, index.CategoryFunction,
		index.CategoryGlobal, index.CategoryInstance, index.CategoryEnum,
		index.CategoryEnumMember, index.CategoryMacro:
		return true
	}
	return false
}

func validResourceCategory(cat string) bool {
	switch index.ResourceCategory(cat) {
	case index.ResourceSprite, index.ResourceObject, index.ResourceSound,
		index.ResourceRoom, index.ResourceScript, index.ResourceFont,
		index.ResourceTileset, index.ResourcePath, index.ResourceShader,
		index.ResourceOther:
		return true
	}
	return false
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing TOML config %s: %w", path, err)
	}
	return &cfg, nil
}

// DiscoverConfig searches for a configuration file.
//
// Resolution order:
//  1. If GML_CONFIG is set, use that path
//  2. Walk up from startDir looking for gml.toml
//
// Returns the loaded config, the path to the config file, and any error.
// If no config is found, returns (DefaultConfig(), "", nil).
func DiscoverConfig(startDir string) (*Config, string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		cfg, err := LoadConfig(envPath)
		if err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", EnvConfig, err)
		}
		return cfg, envPath, nil
	}

	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting working directory: %w", err)
		}
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigTOML)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadConfig(candidate)
			if err != nil {
				return nil, "", err
			}
			return cfg, candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return DefaultConfig(), "", nil
}
