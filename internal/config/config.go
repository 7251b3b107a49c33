// Package config loads chat2md settings from the config file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultTimeoutSec = 30

const (
	configFolderName  = "chat2md"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	OutputDir           string
	Proxy               string
	Timeout             time.Duration
	ShowUI              bool
	IndentWidth         int // 0 keeps each site's default
	ListTrailingNewline bool
	FrontMatter         bool
	// Path is the config file that was read, or "" when none exists.
	Path string
}

// Load returns the defaults overridden by the config file, then by the
// CHAT2MD_* environment variables.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputDir:   ".",
		Timeout:     defaultTimeoutSec * time.Second,
		FrontMatter: true,
	}

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
		cfg.Path = configPath
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

type fileConfig struct {
	OutputDir           *string `toml:"output_dir"`
	Proxy               *string `toml:"proxy"`
	TimeoutSeconds      *int    `toml:"timeout_seconds"`
	ShowUI              *bool   `toml:"show_ui"`
	IndentWidth         *int    `toml:"indent_width"`
	ListTrailingNewline *bool   `toml:"list_trailing_newline"`
	FrontMatter         *bool   `toml:"front_matter"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.OutputDir != nil && strings.TrimSpace(*cfg.OutputDir) == "" {
		return fmt.Errorf("invalid config file %q: output_dir must be non-empty when provided", path)
	}
	if cfg.TimeoutSeconds != nil && *cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: timeout_seconds must be > 0", path)
	}
	if cfg.IndentWidth != nil && *cfg.IndentWidth < 1 {
		return fmt.Errorf("invalid config file %q: indent_width must be >= 1", path)
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.OutputDir != nil {
		cfg.OutputDir = *fileCfg.OutputDir
	}
	if fileCfg.Proxy != nil {
		cfg.Proxy = *fileCfg.Proxy
	}
	if fileCfg.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*fileCfg.TimeoutSeconds) * time.Second
	}
	if fileCfg.ShowUI != nil {
		cfg.ShowUI = *fileCfg.ShowUI
	}
	if fileCfg.IndentWidth != nil {
		cfg.IndentWidth = *fileCfg.IndentWidth
	}
	if fileCfg.ListTrailingNewline != nil {
		cfg.ListTrailingNewline = *fileCfg.ListTrailingNewline
	}
	if fileCfg.FrontMatter != nil {
		cfg.FrontMatter = *fileCfg.FrontMatter
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("CHAT2MD_OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("CHAT2MD_PROXY"); ok && v != "" {
		cfg.Proxy = v
	}
	if v, ok := os.LookupEnv("CHAT2MD_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("CHAT2MD_INDENT_WIDTH"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.IndentWidth = n
		}
	}
}
