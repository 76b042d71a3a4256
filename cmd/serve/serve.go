// Package serve implements the command that runs the HTTP API.
package serve

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/transfer-assistant/cmd/root"
	"fjacquet/transfer-assistant/internal/api"
	"fjacquet/transfer-assistant/internal/config"
	"fjacquet/transfer-assistant/internal/container"

	"github.com/spf13/cobra"
)

var (
	addr  string
	store bool
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API under /api/v1:

  GET  /api/v1/health
  POST /api/v1/transactions/process   {"text": "...", "save": false}
  POST /api/v1/transactions/batch     {"texts": ["..."], "save": false}
  GET  /api/v1/transactions?limit=50
  GET  /api/v1/transactions/{id}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.BuildContainer(func(cfg *config.Config) {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if store {
				cfg.Store.Enabled = true
			}
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.Serve(ctx, c.GetConfig().Server.Addr, NewHandler(c), c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	Cmd.Flags().BoolVar(&store, "store", false, "Enable the transaction store")
}

// NewHandler builds the API router from the container.
func NewHandler(c *container.Container) http.Handler {
	cfg := c.GetConfig()
	return api.NewRouter(c.GetLogger(), c.GetProcessor(), c.GetOrchestrator(), c.GetStore(), api.Options{
		MaxTextLength:     cfg.Input.MaxTextLength,
		MaxBatchItems:     cfg.Batch.MaxItems,
		MaskSensitiveData: cfg.Security.MaskSensitiveData,
		GenerationEnabled: c.GetGenerator().Enabled(),
	})
}
