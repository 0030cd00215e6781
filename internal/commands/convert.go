package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/csvledger/csvledger/internal/config"
	"github.com/csvledger/csvledger/internal/importer"
	"github.com/csvledger/csvledger/internal/ledger"
	"github.com/csvledger/csvledger/internal/model"
	"github.com/csvledger/csvledger/internal/source"
)

type convertOptions struct {
	bank     importer.Institution
	since    string
	outDir   string
	toStdout bool
}

func newConvertCommand(global *globalOptions) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an institution CSV export into a ledger CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
			return runConvert(cmd.OutOrStdout(), logger, cfg, args[0], opts, time.Now())
		},
	}

	cmd.Flags().Var(&opts.bank, "bank", "institution the file was exported from: metamask, n26, dh (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&opts.since, "since", "", "keep only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "print the ledger instead of writing a file")

	return cmd
}

func runConvert(out io.Writer, logger *log.Logger, cfg *config.Config, path string, opts convertOptions, now time.Time) error {
	var since civil.Date
	if opts.since != "" {
		d, err := civil.ParseDate(opts.since)
		if err != nil {
			return fmt.Errorf("invalid --since %q: expected YYYY-MM-DD", opts.since)
		}
		since = d
	}

	doc, err := source.Load(path, cfg.SourceOptions())
	if err != nil {
		logger.Debug("loading failed", "path", path, "err", err)
		return errors.New(importer.UserMessage(err))
	}
	logger.Debug("loaded", "file", doc.Name, "bytes", doc.Size)

	adapter, err := importer.New(opts.bank,
		importer.WithLogger(logger),
		importer.WithCurrencyUnit(cfg.Wallet.CurrencyUnit),
	)
	if err != nil {
		return errors.New(importer.UserMessage(err))
	}

	records, err := adapter.Process(doc.Text, since)
	switch importer.Classify(records, err) {
	case importer.OutcomeFailed:
		logger.Debug("processing failed", "file", doc.Name, "err", err)
		return errors.New(importer.UserMessage(err))
	case importer.OutcomeNoData:
		fmt.Fprintln(out, "No transactions found")
		return nil
	}

	if opts.toStdout {
		if err := ledger.Write(out, records); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}

	dir := cfg.Output.Dir
	if opts.outDir != "" {
		dir = opts.outDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(dir, ledger.FileName(opts.bank, now))
	if err := writeLedgerFile(outPath, records); err != nil {
		return err
	}

	logger.Info("converted", "bank", opts.bank, "records", len(records))
	fmt.Fprintf(out, "Wrote %d transactions to %s\n", len(records), outPath)
	return nil
}

func writeLedgerFile(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ledger.Write(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
