package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/csvledger/csvledger/internal/importer"
	"github.com/csvledger/csvledger/internal/source"
)

// FileName is the default config file name.
const FileName = "csvledger.yaml"

// Config represents the top-level csvledger.yaml configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Wallet WalletConfig `yaml:"wallet"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig controls the file gate.
type InputConfig struct {
	MaxFileSize int64  `yaml:"max_file_size"` // bytes
	Charset     string `yaml:"charset"`       // e.g. "utf-8", "windows-1250"
}

// WalletConfig controls the MetaMask adapter.
type WalletConfig struct {
	CurrencyUnit string `yaml:"currency_unit"`
}

// OutputConfig controls where ledgers are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a csvledger.yaml file from disk. Keys absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MaxFileSize: source.DefaultMaxFileSize,
			Charset:     source.DefaultCharset,
		},
		Wallet: WalletConfig{
			CurrencyUnit: importer.DefaultCurrencyUnit,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level: log.InfoLevel.String(),
		},
	}
}

// Validate reports every invalid setting in cfg.
func (c *Config) Validate() error {
	var errs []error
	if c.Input.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("input.max_file_size must be positive, got %d", c.Input.MaxFileSize))
	}
	if !source.ValidCharset(c.Input.Charset) {
		errs = append(errs, fmt.Errorf("input.charset: unknown charset %q", c.Input.Charset))
	}
	if c.Wallet.CurrencyUnit == "" {
		errs = append(errs, errors.New("wallet.currency_unit must not be empty"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// SourceOptions returns the file gate options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		MaxFileSize: c.Input.MaxFileSize,
		Charset:     c.Input.Charset,
	}
}
