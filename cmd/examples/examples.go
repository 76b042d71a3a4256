// Package examples implements the command that runs built-in sample transfers.
package examples

import (
	"context"
	"fmt"
	"io"

	"fjacquet/transfer-assistant/cmd/common"
	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/container"

	"github.com/spf13/cobra"
)

var (
	set    string
	asJSON bool
)

// Cmd represents the examples command
var Cmd = &cobra.Command{
	Use:   "examples",
	Short: "Run built-in sample transfers through the pipeline",
	Long: `Run one of the built-in sample sets through extraction and validation
and print a line per transfer followed by batch statistics.

Sets:
  quick    five typical transfers, two of them breaking rules
  minimal  three short-form transfers
  full     a wide mix of languages, formats and rule violations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.BuildContainer()
		if err != nil {
			return err
		}
		_, err = Run(cmd.Context(), c, set, asJSON, cmd.OutOrStdout())
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&set, "set", "s", SetQuick, "Sample set: quick, minimal or full")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print results and statistics as JSON")
}

// Run processes the named sample set and writes the report to w.
func Run(ctx context.Context, c *container.Container, set string, asJSON bool, w io.Writer) (batch.Report, error) {
	texts, ok := Samples(set)
	if !ok {
		return batch.Report{}, fmt.Errorf("unknown sample set %q (want %s, %s or %s)", set, SetQuick, SetMinimal, SetFull)
	}

	report := c.GetOrchestrator().ProcessMany(ctx, texts)
	presented := batch.Report{Results: common.PresentAll(c.GetConfig(), report.Results), Stats: report.Stats}

	if asJSON {
		return report, common.PrintJSON(w, presented)
	}
	for i, res := range presented.Results {
		common.PrintSummaryLine(w, i+1, res)
		fmt.Fprintf(w, "     %s\n", res.Text)
	}
	fmt.Fprintln(w)
	common.PrintStats(w, presented.Stats)
	return report, nil
}
