package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/structscan/structscan/engine/analyzer"
	"github.com/structscan/structscan/engine/parser"
)

const (
	defaultConfigName = "structscan"
	defaultConfigType = "yaml"
	envPrefix         = "STRUCTSCAN"
)

// Config represents the application configuration
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
}

// ProjectConfig overrides the identity recovered from the build manifest
type ProjectConfig struct {
	Name    string `mapstructure:"name"`
	GroupID string `mapstructure:"group_id"`
}

// AnalysisConfig controls file selection and the analysis passes
type AnalysisConfig struct {
	SourceExt       string   `mapstructure:"source_ext"`
	ExcludeDirs     []string `mapstructure:"exclude_dirs"`
	TestDirs        []string `mapstructure:"test_dirs"`
	IncludeTests    bool     `mapstructure:"include_tests"`
	IncludeSelfDeps bool     `mapstructure:"include_self_deps"`
	TopQuantile     float64  `mapstructure:"top_quantile"`
	MaxConcurrency  int      `mapstructure:"max_concurrency"`
}

// OutputConfig controls serialization of the analysis document
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
	// Deterministic omits run-local fields (timestamp, duration) so two
	// runs on the same input serialize byte-identically.
	Deterministic bool `mapstructure:"deterministic"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SourceExt:       ".java",
			ExcludeDirs:     []string{".git", ".idea", ".vscode", "target", "build", "out", "node_modules"},
			TestDirs:        []string{"test"},
			IncludeTests:    false,
			IncludeSelfDeps: true,
			TopQuantile:     0.2,
			MaxConcurrency:  4,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
		},
	}
}

// Load loads configuration from defaults, an optional config file, and
// STRUCTSCAN_* environment variables, in increasing precedence. A missing
// config file is not an error. Environment variables can also come from a
// .env file in the working directory.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if configPath == "" {
		defaultPath := filepath.Join(".", defaultConfigName+"."+defaultConfigType)
		if _, err := os.Stat(defaultPath); err == nil {
			configPath = defaultPath
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		v.SetConfigFile(configPath)
		v.SetConfigType(defaultConfigType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every configuration key with viper. Environment
// lookups only happen for keys viper knows about, so without this the
// STRUCTSCAN_* overrides would be ignored whenever no config file is read.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("project.name", cfg.Project.Name)
	v.SetDefault("project.group_id", cfg.Project.GroupID)
	v.SetDefault("analysis.source_ext", cfg.Analysis.SourceExt)
	v.SetDefault("analysis.exclude_dirs", cfg.Analysis.ExcludeDirs)
	v.SetDefault("analysis.test_dirs", cfg.Analysis.TestDirs)
	v.SetDefault("analysis.include_tests", cfg.Analysis.IncludeTests)
	v.SetDefault("analysis.include_self_deps", cfg.Analysis.IncludeSelfDeps)
	v.SetDefault("analysis.top_quantile", cfg.Analysis.TopQuantile)
	v.SetDefault("analysis.max_concurrency", cfg.Analysis.MaxConcurrency)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.pretty", cfg.Output.Pretty)
	v.SetDefault("output.deterministic", cfg.Output.Deterministic)
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.Analysis.TopQuantile <= 0 || c.Analysis.TopQuantile > 1 {
		return fmt.Errorf("analysis.top_quantile must be in (0, 1], got %v", c.Analysis.TopQuantile)
	}
	if c.Analysis.SourceExt == "" || !strings.HasPrefix(c.Analysis.SourceExt, ".") {
		return fmt.Errorf("analysis.source_ext must be a file extension, got %q", c.Analysis.SourceExt)
	}
	if c.Analysis.MaxConcurrency <= 0 {
		c.Analysis.MaxConcurrency = 4
	}
	return nil
}

// ParserConfig derives the parser configuration
func (c *Config) ParserConfig() *parser.Config {
	return &parser.Config{
		SourceExt:      c.Analysis.SourceExt,
		ExcludeDirs:    c.Analysis.ExcludeDirs,
		TestDirs:       c.Analysis.TestDirs,
		IncludeTests:   c.Analysis.IncludeTests,
		MaxConcurrency: c.Analysis.MaxConcurrency,
	}
}

// AnalyzerConfig derives the analyzer configuration
func (c *Config) AnalyzerConfig() *analyzer.Config {
	return &analyzer.Config{
		TopQuantile:     c.Analysis.TopQuantile,
		IncludeSelfDeps: c.Analysis.IncludeSelfDeps,
	}
}
