// Package config holds compiler settings shared by the CLI and the pipeline
package config

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/minic-compiler/pkg/compiler"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
)

// Config holds every tunable of a minic run
type Config struct {
	OptLevel  int    // 0 disables folding, 2 adds peephole rewrites
	Validate  bool   // run the assembly validator after code generation
	Jobs      int    // files compiled concurrently by batch
	OutDir    string // batch report directory
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json
	LogFile   string
	Verbose   bool
}

// Default returns the settings used when nothing is overridden
func Default() *Config {
	return &Config{
		OptLevel:  1,
		Validate:  true,
		Jobs:      runtime.GOMAXPROCS(0),
		OutDir:    ".",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// FromEnv applies MINIC_* environment overrides to cfg
func FromEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("MINIC_OPT_LEVEL"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("MINIC_OPT_LEVEL: %w", err)
		}
		cfg.OptLevel = n
	}
	if v, ok := os.LookupEnv("MINIC_JOBS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("MINIC_JOBS: %w", err)
		}
		cfg.Jobs = n
	}
	if v, ok := os.LookupEnv("MINIC_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("MINIC_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv("MINIC_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg.check()
}

// RegisterFlags binds cfg fields to command-line flags. Current values are
// the flag defaults, so call it after FromEnv.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.OptLevel, "O", c.OptLevel, "optimization level (0-2)")
	fs.BoolVar(&c.Validate, "validate", c.Validate, "validate generated assembly")
	fs.IntVar(&c.Jobs, "j", c.Jobs, "files compiled concurrently (batch)")
	fs.StringVar(&c.OutDir, "outdir", c.OutDir, "report directory (batch)")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose debug logging")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "append logs to this file")
}

// Finish validates cfg after flag parsing
func (c *Config) Finish() error {
	return c.check()
}

func (c *Config) check() error {
	if c.OptLevel < 0 || c.OptLevel > 2 {
		return fmt.Errorf("optimization level %d out of range 0-2", c.OptLevel)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoggerConfig derives the logger settings. Verbose forces debug level.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(c.LogLevel)
	cfg.Format = c.LogFormat
	cfg.LogFile = c.LogFile
	if c.Verbose {
		cfg.Level = logger.LevelDebug
		cfg.AddSource = true
	}
	return cfg
}

// Options derives the pipeline options
func (c *Config) Options() compiler.Options {
	return compiler.Options{
		OptLevel: c.OptLevel,
		Validate: c.Validate,
	}
}
