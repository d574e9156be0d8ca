package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"novastay/internal/config"
	"novastay/internal/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	okColor   = color.New(color.FgGreen).Add(color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed).Add(color.Bold)
)

type opener func(ctx context.Context) (*gorm.DB, error)

// NewRootCmd builds the hotelctl command tree.
func NewRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Operator tool for the NovaStay front-desk backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&dsn, "database-url", "", "database DSN (defaults to DATABASE_URL)")

	open := func(ctx context.Context) (*gorm.DB, error) {
		if dsn == "" {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			dsn = cfg.DatabaseURL
		}
		db, err := database.ConnectWithRetry(ctx, dsn, 3, time.Second)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	}

	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newSweepCmd(open),
		newStaffCmd(open),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		errColor.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
