package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FanchonSora/V-Assistant/internal/config"
	applog "github.com/FanchonSora/V-Assistant/internal/log"
	"github.com/FanchonSora/V-Assistant/internal/scheduler"
	"github.com/FanchonSora/V-Assistant/internal/server"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vassistd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "vassistd",
		Short: "Personal assistant API server: accounts, tasks, chat, reminders.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return errors.New("server.jwt_secret (or VASSIST_JWT_SECRET) is required")
			}

			repo, err := storage.OpenSQLite(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()
			if err := storage.MigrateUp(repo.DB()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := scheduler.NewEngine(64)
			srv := server.New(cfg.Server, repo, engine)
			applog.Info("starting vassistd", "db", cfg.Server.DBPath)
			return srv.Start(ctx)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			repo, err := storage.OpenSQLite(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if down {
				return storage.MigrateDown(repo.DB())
			}
			return storage.MigrateUp(repo.DB())
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll the schema back instead of forward")
	return cmd
}
