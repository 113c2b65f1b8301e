package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Eventual-Inc/pdfagent/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the function over HTTP",
	Long: `Serves the configured function over HTTP on PORT.

POST /2015-03-31/functions/function/invocations invokes it with a raw event,
like the Lambda runtime interface emulator. Any other request is wrapped as an
API Gateway proxy event.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := bootstrap(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		srv, err := server.New(server.Config{
			Addr:            cfg.Addr(),
			Functions:       svc.functions,
			DefaultFunction: cfg.Handler,
			Log:             svc.log.WithField("component", "server"),
		})
		if err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		svc.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
