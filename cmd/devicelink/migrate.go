package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/devicelink/internal/infrastructure/config"
	"github.com/nerrad567/devicelink/internal/infrastructure/database"
)

// newMigrateCmd builds "migrate up|down|status". configPath points at the
// root's --config flag.
func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd, *configPath, "up")
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd, *configPath, "down")
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd, *configPath, "status")
			},
		},
	)
	return cmd
}

func migrate(cmd *cobra.Command, configPath, action string) error {
	path := resolveConfigPath(configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-mostly command; close errors are not actionable

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch action {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		fmt.Fprintln(out, "migrations applied")
		return nil
	case "down":
		if err := db.MigrateDown(ctx); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		fmt.Fprintln(out, "latest migration rolled back")
		return nil
	}

	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	printStatus(out, applied, pending)
	return nil
}

func printStatus(out io.Writer, applied []database.MigrationRecord, pending []database.Migration) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT")
	for _, r := range applied {
		fmt.Fprintf(w, "%s\tapplied\t%s\n", r.Version, r.AppliedAt.Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(w, "%s\tpending\t-\n", m.Version)
	}
	w.Flush() //nolint:errcheck // Best-effort write to the terminal
}
