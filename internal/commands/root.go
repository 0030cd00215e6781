package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/csvledger/csvledger/internal/buildinfo"
	"github.com/csvledger/csvledger/internal/config"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "csvledger",
		Short:   "Normalize bank and wallet CSV exports into a simple ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newBanksCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// loadConfig reads the config named by --config, falling back to
// ./csvledger.yaml and then to the defaults. --log-level overrides the file.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case o.configPath != "":
		c, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.Load(config.FileName)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, os.ErrNotExist):
			cfg = config.Default()
		default:
			return nil, err
		}
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "csvledger",
		Level:           lvl,
	})
}
