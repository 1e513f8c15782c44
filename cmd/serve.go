package cmd

import (
	"os/signal"
	"syscall"

	"github.com/AnyUserName/picpack/internal/cache"
	"github.com/AnyUserName/picpack/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves POST /v1/placeholder, /v1/resize and /v1/fingerprint plus
GET /healthz.  Placeholder records are cached by content fingerprint.
Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		appCfg.Server.Addr = serveAddr
	}

	c, err := cache.New(ctx, appCfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("addr", appCfg.Server.Addr),
		zap.String("cache", appCfg.Cache.Backend))

	srv := server.New(appCfg.Server, newGenerator(), c, logger)
	return srv.Run(ctx)
}
