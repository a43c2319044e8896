package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}

		t, err := e.tutor(ctx)
		if err != nil {
			return err
		}

		srv := server.New(server.Deps{
			Tutor:  t,
			Health: e.store,
			Logger: e.logger,
			Config: e.cfg.Server,
		})

		e.logger.Info("starting server",
			zap.String("addr", e.cfg.Server.Addr),
			zap.String("llm_provider", e.cfg.LLM.Provider),
			zap.String("db_driver", e.store.Dialect()))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
