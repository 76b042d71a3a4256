// Package rules implements the command that prints the effective rule set.
package rules

import (
	"fmt"
	"io"

	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/internal/fileutils"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/validation"

	"github.com/spf13/cobra"
)

var output string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective validation rules as YAML",
	Long: `Print the validation rules in effect, built-in defaults merged with the
file named by rules.file, in the YAML format that rules.file accepts.

Example:
  transfer-assistant rules -o rules.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.BuildContainer()
		if err != nil {
			return err
		}
		return Run(c.GetRules(), output, cmd.OutOrStdout(), c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the rules to this file instead of stdout")
}

// Run renders rules and writes them to path, or to w when path is empty.
func Run(rules validation.RuleSet, path string, w io.Writer, logger logging.Logger) error {
	data, err := rules.YAML()
	if err != nil {
		return fmt.Errorf("failed to render rules: %w", err)
	}

	if path == "" {
		_, err = w.Write(data)
		return err
	}

	if err := fileutils.WriteFile(path, data, 0600); err != nil {
		return err
	}
	logging.OrDiscard(logger).Info("Wrote rules file", logging.F(logging.FieldOutputFile, path))
	return nil
}
