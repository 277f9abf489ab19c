package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sg44_backend/database"
	"sg44_backend/internal/app"
	"sg44_backend/internal/auth"
	"sg44_backend/internal/config"
	"sg44_backend/internal/email"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/workers"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sg44",
		Short:         "SG44 conference registration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), exportCSVCmd(), cleanupTokensCmd(), versionCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Server.Env)

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			return database.AutoMigrate(db)
		},
	}
}

func exportCSVCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Write the registration export to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Server.Env)

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}

			// mail is never sent by an export; keep it off the SMTP server
			application, err := app.New(cfg, db, email.NewMemoryProvider(nil))
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			w := bufio.NewWriter(f)
			operator := auth.Actor{UserID: "cli", Role: models.UserRoleAdmin}
			if err := application.Services.ReconciliationService.ExportCSV(db.WithContext(cmd.Context()), operator, w); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "registrations.csv", "output file")
	return cmd
}

func cleanupTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Remove expired refresh and password reset tokens once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Server.Env)

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			worker := workers.NewTokenCleanupWorker(db, repositories.NewRefreshTokenRepository())
			return worker.RunOnce(cmd.Context())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
