package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/cli/config"
	controller "github.com/m-mizutani/relnotes/pkg/controller/http"
	"github.com/m-mizutani/relnotes/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		webhookCfg config.Webhook
		backendCfg config.Backend
		githubCfg  config.GitHub
		filterCfg  config.Filter
		outputCfg  config.Output
		fileCfg    config.File
	)

	flags := append(serverCfg.Flags(), webhookCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, filterCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, fileCfg.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting relnotes server",
				slog.String("addr", serverCfg.Addr),
				slog.Bool("webhook", webhookCfg.Secret != ""),
				slog.Any("backend", backendCfg),
				slog.Any("github", githubCfg),
				slog.Any("output", outputCfg),
			)

			// Create use cases
			gen, err := newGenerator(&backendCfg, &githubCfg)
			if err != nil {
				return err
			}

			reportUC, closer, err := newReportUseCase(ctx, gen, &outputCfg)
			if err != nil {
				return err
			}
			defer closer()

			webhookUC := usecase.NewWebhook(reportUC, usecase.WithWebhookFilters(filterCfg.FilterSet()))

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				reportUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(webhookCfg.Secret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
