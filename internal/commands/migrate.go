package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/SscSPs/ngo_fund_ledger/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	var (
		steps int
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Applies every pending migration by default. A positive --steps applies that many, a negative one rolls back.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("PGSQL_URL is required")
			}
			if dir == "" {
				dir = cfg.MigrationsPath
			}

			res, err := database.Migrate(cfg.DatabaseURL, dir, steps)
			if err != nil {
				return err
			}
			logger.Info("Migrations finished",
				slog.Uint64("version", uint64(res.Version)),
				slog.Bool("dirty", res.Dirty),
				slog.Bool("changed", res.Changed))
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", res.Version)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply (negative rolls back, 0 applies all)")
	cmd.Flags().StringVar(&dir, "path", "", "migration source URL (defaults to MIGRATIONS_PATH)")

	return cmd
}
