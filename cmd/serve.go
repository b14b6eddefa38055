package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobsync/core/config"
	"jobsync/core/server"
	"jobsync/feature/jobnum"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the HTTP trigger server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	Long: `Start a small HTTP server exposing a health endpoint and a trigger
for reconciliation runs (POST /runs). Intended for environments where runs
are kicked off by a webhook or scheduler service instead of cron.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	runner, l, err := buildRunner()
	if err != nil {
		return err
	}
	defer l.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app := server.New(cfg.Server, l, func(ctx context.Context) (any, error) {
		return runner.Run(ctx, jobnum.RunOptions{})
	})

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		l.Info("Shutting down")
		_ = app.Shutdown()
	}()

	l.Info("Listening", zap.String("port", cfg.Server.Port))
	return app.Listen(":" + cfg.Server.Port)
}
