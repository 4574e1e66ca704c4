// Package config loads the native binding configuration from the environment
// and an optional TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go-simpler.org/env"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where and how the SaxonC libraries are loaded.
type Config struct {
	// Application base directory; runtimes/{rid}/native is searched below it.
	// Default: the executable's directory
	BaseDir string `env:"SAXONC_BASE_DIR" toml:"base_dir"`
	// Last-resort library directory, searched after every other root
	LibraryDir string `env:"SAXONC_LIBRARY_DIR" toml:"library_dir"`
	// Extra user-supplied roots (TOML only), searched after the bundled roots
	SearchRoots []string `toml:"search_roots"`
	// Logical name of the core (isolate/runtime) library
	CoreLibrary string `env:"SAXONC_CORE_LIBRARY" default:"saxonc-core-ee" toml:"core_library"`
	// Logical name of the main library, loaded after the core library
	MainLibrary string `env:"SAXONC_MAIN_LIBRARY" default:"saxonc-ee" toml:"main_library"`
	// Do not create unversioned symlinks next to versioned artifacts
	DisableSymlink bool `env:"SAXONC_DISABLE_SYMLINK" default:"false" toml:"disable_symlink"`
	// Prepend each library directory to LD_LIBRARY_PATH/DYLD_LIBRARY_PATH/PATH before loading
	AugmentLinkerPath bool `env:"SAXONC_AUGMENT_LINKER_PATH" default:"true" toml:"augment_linker_path"`
	// Skip /usr/local/lib and /opt/homebrew/lib on macOS
	SkipSystemDirs bool `env:"SAXONC_SKIP_SYSTEM_DIRS" default:"false" toml:"skip_system_dirs"`
	// License flag passed through to the processor factory
	Licensed bool `env:"SAXONC_LICENSED" default:"true" toml:"licensed"`
	// Directory holding the Transform/Validate/Query executables
	BinDir string `env:"SAXONC_BIN_DIR" toml:"bin_dir"`
	// Log level (debug, info, warn, error)
	LogLevel string `env:"SAXONC_LOG_LEVEL" default:"info" toml:"log_level"`
}

// FromEnv returns a config populated with defaults and values from environment variables.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("loading config from env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the environment and, if path is not empty, overlays the TOML file at path.
func Load(path string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	if err := cfg.MergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the keys present in the TOML file at path onto c.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("parsing log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// NewLogger builds a zap logger at the configured level. Debug level uses the
// development encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
