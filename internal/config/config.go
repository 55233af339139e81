package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultCoarseMS      = 100
	defaultFineMS        = 25
	defaultMinGapMS      = 10
	defaultMaxContext    = 5
	defaultToleranceMS   = 500
	defaultNameWords     = 3
	defaultStateDirLinux = ".local/state/parasite"
	defaultConfigDir     = ".config/parasite"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Paths struct {
		InputDir    string `toml:"input_dir"`
		OutputDir   string `toml:"output_dir"`
		StateDir    string `toml:"state_dir"`
		LogPath     string `toml:"log_path"`
		CatalogPath string `toml:"catalog_path"`
		ConfigPath  string `toml:"-"`
	} `toml:"paths"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stdout bool   `toml:"stdout"`
	} `toml:"logging"`

	Adjust struct {
		CoarseMS int `toml:"coarse_ms"`
		FineMS   int `toml:"fine_ms"`
		MinGapMS int `toml:"min_gap_ms"`
	} `toml:"adjust"`

	Search struct {
		DefaultContext int `toml:"default_context"`
		MaxContext     int `toml:"max_context"`
	} `toml:"search"`

	Transcript struct {
		ToleranceMS int `toml:"tolerance_ms"` // allowed backwards drift between cue starts
	} `toml:"transcript"`

	Preview struct {
		Enabled bool   `toml:"enabled"`
		Command string `toml:"command"`
		Args    string `toml:"args"` // shell-style, split with shlex
	} `toml:"preview"`

	Extract struct {
		NameWords int `toml:"name_words"`
	} `toml:"extract"`

	Catalog struct {
		Enabled bool `toml:"enabled"`
	} `toml:"catalog"`

	Hook HookConfig `toml:"hook"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS prefers ~/Library/Application Support/parasite for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "parasite")
	}

	cfg := &Config{}

	cfg.Paths.InputDir = "data"
	cfg.Paths.OutputDir = "output"
	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "parasite.log")
	cfg.Paths.CatalogPath = filepath.Join(stateDir, "catalog.sqlite")

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Adjust.CoarseMS = defaultCoarseMS
	cfg.Adjust.FineMS = defaultFineMS
	cfg.Adjust.MinGapMS = defaultMinGapMS

	cfg.Search.DefaultContext = 0
	cfg.Search.MaxContext = defaultMaxContext

	cfg.Transcript.ToleranceMS = defaultToleranceMS

	cfg.Preview.Enabled = true
	cfg.Preview.Command = "ffplay"
	cfg.Preview.Args = "-nodisp -autoexit -loglevel quiet"

	cfg.Extract.NameWords = defaultNameWords

	cfg.Catalog.Enabled = true

	cfg.Hook.Args = []string{}
	cfg.Hook.TimeoutSec = 10
	cfg.Hook.Env = map[string]string{}

	return cfg, nil
}

// Load loads config from file, applying defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath), filepath.Dir(cfg.Paths.CatalogPath)} {
		if p == "" || p == "." {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// CoarseStep is the large nudge applied to segment boundaries.
func (c *Config) CoarseStep() time.Duration {
	return time.Duration(c.Adjust.CoarseMS) * time.Millisecond
}

// FineStep is the small nudge applied to segment boundaries.
func (c *Config) FineStep() time.Duration {
	return time.Duration(c.Adjust.FineMS) * time.Millisecond
}

// MinGap is the smallest segment the boundary model will allow.
func (c *Config) MinGap() time.Duration {
	return time.Duration(c.Adjust.MinGapMS) * time.Millisecond
}

// Tolerance is how far a cue may start before its predecessor and still parse.
func (c *Config) Tolerance() time.Duration {
	return time.Duration(c.Transcript.ToleranceMS) * time.Millisecond
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARASITE_INPUT_DIR"); v != "" {
		cfg.Paths.InputDir = v
	}
	if v := os.Getenv("PARASITE_OUTPUT_DIR"); v != "" {
		cfg.Paths.OutputDir = v
	}
	if v := os.Getenv("PARASITE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PARASITE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PARASITE_PREVIEW_COMMAND"); v != "" {
		cfg.Preview.Command = v
		cfg.Preview.Enabled = true
	}
	if v := os.Getenv("PARASITE_CATALOG_ENABLED"); v != "" {
		cfg.Catalog.Enabled = v != "0" && strings.ToLower(v) != "false"
	}
}
