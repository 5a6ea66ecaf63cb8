package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	healthhttp "forgeai/omega_gateway/internal/adapters/http/health"
	"forgeai/omega_gateway/internal/bootstrap"
	"forgeai/omega_gateway/internal/infrastructure/config"
	"forgeai/omega_gateway/internal/infrastructure/http/server"
	"forgeai/omega_gateway/internal/infrastructure/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port    int
		envFile string
	)

	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "ForgeAI Omega API Gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3001, "port to listen on (overrides APP_PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	return cmd
}

func run(ctx context.Context, cfg config.AppConfig) error {
	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment).
		With("instance_id", uuid.NewString())

	healthService, cleanup, err := bootstrap.HealthService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("wire health service: %w", err)
	}
	defer cleanup()

	srv, err := server.New(server.Options{
		Addr:            cfg.HTTP.Address(),
		Logger:          log,
		HealthHandler:   http.HandlerFunc(healthhttp.NewHandler(healthService, log).Status),
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ln, err := srv.Listen()
	if err != nil {
		log.Error("Failed to bind HTTP port", "port", cfg.HTTP.Port, "error", err)
		return err
	}

	meta := bootstrap.HealthMetadata(cfg)
	baseURL := fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)
	log.Info("ForgeAI Omega API Gateway running", "url", baseURL, "version", cfg.App.Version, "environment", cfg.App.Environment)
	log.Info("Database configured", "dependency", meta.Database.Name, "address", meta.Database.Address, "verified", healthService.Probing())
	log.Info("Cache configured", "dependency", meta.Cache.Name, "address", meta.Cache.Address, "verified", healthService.Probing())
	log.Info("Visit " + baseURL + "/health to test")

	return srv.Serve(ctx, ln)
}
