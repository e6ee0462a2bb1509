// Package config loads tool configuration from TOML files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/StinkyLord/msbuild-compdb/internal/cmdline"
)

// Config is the complete tool configuration.
type Config struct {
	Output     OutputConfig     `toml:"output"`
	Logging    LoggingConfig    `toml:"logging"`
	Processing ProcessingConfig `toml:"processing"`
	Compile    ProfileConfig    `toml:"compile"`
	Link       ProfileConfig    `toml:"link"`
	Tlog       TlogConfig       `toml:"tlog"`
}

type OutputConfig struct {
	CompileCommands string `toml:"compile_commands"` // Path of compile_commands.json ("-" for stdout)
	LinkCommands    string `toml:"link_commands"`    // Path of link_commands.json ("-" for stdout, "" to skip)
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
}

type ProcessingConfig struct {
	Workers       int    `toml:"workers"`         // Concurrent event handlers; 1 keeps arrival order
	PathCacheSize int    `toml:"path_cache_size"` // Executable path resolutions to remember
	WorkDir       string `toml:"work_dir"`        // Base for relative executable paths (default: cwd)
}

// ProfileConfig is the classification rule set for one invocation kind.
type ProfileConfig struct {
	OptionsWithParam []string `toml:"options_with_param"` // Options whose parameter may be the next token
	Extensions       []string `toml:"extensions"`         // File extensions kept by the resolver
}

// TlogConfig controls reading MSBuild tracking logs.
type TlogConfig struct {
	Compiler   string `toml:"compiler"`    // Executable prepended to CL command tlogs
	Linker     string `toml:"linker"`      // Executable prepended to link command tlogs
	Librarian  string `toml:"librarian"`   // Executable prepended to lib command tlogs
	ProjectDir string `toml:"project_dir"` // Directory recorded for tlog invocations (default: scanned dir)
}

// NewDefault returns the built-in configuration.
func NewDefault() *Config {
	return &Config{
		Output: OutputConfig{
			CompileCommands: "compile_commands.json",
			LinkCommands:    "link_commands.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Processing: ProcessingConfig{
			Workers:       1,
			PathCacheSize: cmdline.DefaultPathCacheSize,
		},
		Compile: ProfileConfig{
			OptionsWithParam: append([]string(nil), cmdline.DefaultOptionsWithParam...),
			Extensions:       append([]string(nil), cmdline.DefaultSourceExtensions...),
		},
		Link: ProfileConfig{
			Extensions: append([]string(nil), cmdline.DefaultLinkExtensions...),
		},
		Tlog: TlogConfig{
			Compiler:  "cl.exe",
			Linker:    "link.exe",
			Librarian: "lib.exe",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files (later
// files override earlier ones) -> environment. Empty paths are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefault()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if level := os.Getenv("COMPDB_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("COMPDB_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if workers := os.Getenv("COMPDB_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid COMPDB_WORKERS %q: %w", workers, err)
		}
		cfg.Processing.Workers = n
	}
	if out := os.Getenv("COMPDB_COMPILE_OUTPUT"); out != "" {
		cfg.Output.CompileCommands = out
	}
	if out := os.Getenv("COMPDB_LINK_OUTPUT"); out != "" {
		cfg.Output.LinkCommands = out
	}
	if dir := os.Getenv("COMPDB_WORK_DIR"); dir != "" {
		cfg.Processing.WorkDir = dir
	}
	return nil
}

// Profiles builds the classification rules. A link profile without its own
// option table reuses the compile table, as MSBuild's logger always did.
func (c *Config) Profiles() cmdline.Profiles {
	linkOptions := c.Link.OptionsWithParam
	if len(linkOptions) == 0 {
		linkOptions = c.Compile.OptionsWithParam
	}
	return cmdline.Profiles{
		Compile: cmdline.NewProfile(c.Compile.OptionsWithParam, c.Compile.Extensions),
		Link:    cmdline.NewProfile(linkOptions, c.Link.Extensions),
	}
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}
	if c.Output.CompileCommands == "" {
		return fmt.Errorf("output.compile_commands must not be empty")
	}
	if c.Output.CompileCommands == "-" && c.Output.LinkCommands == "-" {
		return fmt.Errorf("only one of output.compile_commands and output.link_commands may be stdout")
	}
	return nil
}
