// Package config loads pipeline configuration from file, environment,
// and defaults, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Manifest ManifestConfig `yaml:"manifest" mapstructure:"manifest"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig describes the input and output locations and the filter
// configuration.
type DataConfig struct {
	RawDir    string      `yaml:"raw_dir" mapstructure:"raw_dir"`
	OutputDir string      `yaml:"output_dir" mapstructure:"output_dir"`
	Positions []string    `yaml:"positions" mapstructure:"positions"`
	Weeks     WeeksConfig `yaml:"weeks" mapstructure:"weeks"`
	BlockSize int         `yaml:"block_size" mapstructure:"block_size"`
}

// WeeksConfig is the inclusive week range of tracking files to ingest.
type WeeksConfig struct {
	Start int `yaml:"start" mapstructure:"start"`
	End   int `yaml:"end" mapstructure:"end"`
}

// IngestConfig configures the tracking ingest stage.
type IngestConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ManifestConfig configures the run-manifest store. An empty path
// disables manifest recording.
type ManifestConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRACKPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.raw_dir", "data/raw")
	v.SetDefault("data.output_dir", "data/combined")
	v.SetDefault("data.positions", []string{"QB", "RB", "WR", "TE", "T", "G", "C"})
	v.SetDefault("data.weeks.start", 1)
	v.SetDefault("data.weeks.end", 9)
	v.SetDefault("data.block_size", 50000)
	v.SetDefault("ingest.concurrency", 3)
	v.SetDefault("manifest.path", "trackprep.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.RawDir) == "" {
		return eris.New("config: data.raw_dir is required")
	}
	if strings.TrimSpace(c.Data.OutputDir) == "" {
		return eris.New("config: data.output_dir is required")
	}
	if len(c.Data.Positions) == 0 {
		return eris.New("config: data.positions must not be empty")
	}
	if c.Data.Weeks.Start < 1 || c.Data.Weeks.End < c.Data.Weeks.Start {
		return eris.Errorf("config: invalid week range %d-%d", c.Data.Weeks.Start, c.Data.Weeks.End)
	}
	if c.Data.BlockSize <= 0 {
		return eris.Errorf("config: data.block_size must be positive, got %d", c.Data.BlockSize)
	}
	if c.Ingest.Concurrency <= 0 {
		return eris.Errorf("config: ingest.concurrency must be positive, got %d", c.Ingest.Concurrency)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
