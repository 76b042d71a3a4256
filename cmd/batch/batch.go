// Package batch handles batch processing of transfer files
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/transfer-assistant/cmd/common"
	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/internal/batch"
	iocommon "fjacquet/transfer-assistant/internal/common"
	"fjacquet/transfer-assistant/internal/config"
	"fjacquet/transfer-assistant/internal/container"
	"fjacquet/transfer-assistant/internal/fileutils"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/textutils"

	"github.com/spf13/cobra"
)

// Options are the inputs of a batch run.
type Options struct {
	Input  string
	Output string
	Save   bool
	JSON   bool
}

var (
	opts    Options
	workers int
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process many transfers from a file",
	Long: `Process every transfer text of a .txt file (one per line), a .csv file
(column description, text, transaction, описание or транзакция) or a
directory of such files, and print batch statistics.

Example:
  transfer-assistant batch -i transfers.txt -o results.csv
  transfer-assistant batch -i transfers.csv --workers 4 --store`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.BuildContainer(func(cfg *config.Config) {
			if workers > 0 {
				cfg.Batch.Workers = workers
			}
			if opts.Save {
				cfg.Store.Enabled = true
			}
		})
		if err != nil {
			return err
		}
		_, err = Run(cmd.Context(), c, opts, cmd.OutOrStdout())
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Input .txt or .csv file, or a directory of them (required)")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write per-transaction results to this CSV file, or into this directory")
	Cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel workers (default from batch.workers)")
	Cmd.Flags().BoolVar(&opts.Save, "store", false, "Save successful results in the transaction store")
	Cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print results and statistics as JSON")
	_ = Cmd.MarkFlagRequired("input")
}

// Run reads the input, processes every text and reports the outcome.
func Run(ctx context.Context, c *container.Container, opts Options, w io.Writer) (batch.Report, error) {
	cfg := c.GetConfig()
	logger := c.GetLogger()

	texts, err := iocommon.ReadTransactionTexts(opts.Input, logger)
	if err != nil {
		return batch.Report{}, err
	}
	if len(texts) == 0 {
		return batch.Report{}, fmt.Errorf("no transactions found in %s", opts.Input)
	}
	if cfg.Batch.MaxItems > 0 && len(texts) > cfg.Batch.MaxItems {
		return batch.Report{}, fmt.Errorf("%d transactions exceed the batch limit of %d", len(texts), cfg.Batch.MaxItems)
	}
	for i, text := range texts {
		if err := common.CheckText(cfg, text); err != nil {
			return batch.Report{}, fmt.Errorf("transaction %d: %w", i+1, err)
		}
	}

	report := c.GetOrchestrator().ProcessMany(ctx, texts)

	saved := 0
	if opts.Save {
		repo := c.GetStore()
		if repo == nil {
			return report, fmt.Errorf("transaction store is not enabled")
		}
		for _, res := range report.Results {
			if !res.Succeeded() {
				continue
			}
			if err := repo.Save(ctx, res); err != nil {
				return report, fmt.Errorf("failed to save transaction %s: %w", res.Record.ID, err)
			}
			saved++
		}
		logger.Info("Saved transactions", logging.F(logging.FieldCount, saved))
	}

	presented := batch.Report{Results: common.PresentAll(cfg, report.Results), Stats: report.Stats}

	opts.Output = outputPath(opts.Input, opts.Output)
	if opts.Output != "" {
		if err := iocommon.WriteResultsCSV(presented.Results, opts.Output, logger); err != nil {
			return report, err
		}
	}

	if opts.JSON {
		return report, common.PrintJSON(w, presented)
	}

	for i, res := range presented.Results {
		common.PrintSummaryLine(w, i+1, res)
	}
	fmt.Fprintln(w)
	common.PrintStats(w, presented.Stats)
	if opts.Save {
		fmt.Fprintf(w, "Saved %d transactions\n", saved)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "Results written to %s\n", opts.Output)
	}
	return report, nil
}

// outputPath places the results file inside output when output is an existing
// directory, naming it after the input.
func outputPath(input, output string) string {
	if output == "" || !fileutils.DirectoryExists(output) {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := textutils.SanitizeFilename(base)
	if name == "" {
		name = "batch"
	}
	return filepath.Join(output, name+"_results.csv")
}
