// Package process implements the command that handles a single transfer text.
package process

import (
	"context"
	"io"

	"fjacquet/transfer-assistant/cmd/common"
	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/internal/container"

	"github.com/spf13/cobra"
)

var (
	text   string
	asJSON bool
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process [text]",
	Short: "Extract and validate one transfer",
	Long: `Extract the amount, currency, recipient, account and description from one
free-text transfer instruction and validate them.

Example:
  transfer-assistant process "Перевести 15000 рублей Иванову счет 40817810123456789012"
  transfer-assistant process --text "Transfer 2500 USD to John Smith account 1234567890" --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := text
		if len(args) == 1 {
			input = args[0]
		}

		c, err := root.BuildContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, input, asJSON, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&text, "text", "t", "", "Transfer text (alternative to the positional argument)")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
}

// Run processes input and writes the result to w.
func Run(ctx context.Context, c *container.Container, input string, asJSON bool, w io.Writer) error {
	cfg := c.GetConfig()
	if err := common.CheckText(cfg, input); err != nil {
		return err
	}

	res := common.Present(cfg, c.GetProcessor().ProcessTransaction(ctx, input))
	if asJSON {
		return common.PrintJSON(w, res)
	}
	common.PrintResult(w, res)
	return nil
}
