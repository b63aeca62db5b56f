package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/server"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve jokes and stories over HTTP",
	Long: `Run an HTTP server with a JSON API for a browser front end.

  GET /api/jokes    five jokes
  GET /api/stories  three stories
  GET /healthz      provider health

Only one generation runs at a time; concurrent requests get 409 Conflict.
Changes to the config file are picked up without a restart.

Examples:
  jester serve
  jester serve --addr 127.0.0.1:9000 --provider ollama`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := commandLogger()
	gen, err := buildGenerator(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(gen, cfg.Server, logger)

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(reloadGenerator(srv, cfg, logger))
		viper.WatchConfig()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// reloadGenerator returns a config change handler that rebuilds the provider
// and swaps it into srv. Invalid configs are ignored and the previous
// generator is kept. Server timeouts are fixed at startup, so a new
// llm.timeout that no longer fits inside running's write timeout is ignored
// too.
func reloadGenerator(srv *server.Server, running *config.Config, logger *slog.Logger) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		logger.Info("config file changed, rebuilding provider", "file", e.Name, "op", e.Op.String())

		next, err := loadConfig()
		if err != nil {
			logger.Error("ignoring invalid config", "error", err)
			return
		}
		if !config.WriteTimeoutCovers(running.Server.WriteTimeout, next.LLM.Timeout) {
			logger.Error("ignoring config: llm.timeout does not fit the running write timeout, restart to apply",
				"llm_timeout", next.LLM.Timeout,
				"write_timeout", running.Server.WriteTimeout)
			return
		}

		gen, err := buildGenerator(next, logger)
		if err != nil {
			logger.Error("keeping previous provider", "error", err)
			return
		}
		srv.SetGenerator(gen)
	}
}
