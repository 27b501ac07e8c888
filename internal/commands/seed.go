package commands

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/export"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/ngo_fund_ledger/pkg/database"
)

//go:embed sample_chart.csv
var sampleChart []byte

// importChart reads a chart CSV and creates the accounts that are missing.
func importChart(ctx context.Context, accounts portssvc.AccountWriterSvc, r io.Reader, userID string) (int, error) {
	reqs, err := export.ReadAccounts(r)
	if err != nil {
		return 0, err
	}
	return accounts.ImportAccounts(ctx, reqs, userID)
}

func newSeedCommand() *cobra.Command {
	var (
		file   string
		userID string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a chart of accounts from CSV",
		Long:  "Creates every account in the file that does not exist yet. Without --file the built-in sample chart is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := newLogger(cmd.ErrOrStderr())

			var src io.Reader = bytes.NewReader(sampleChart)
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("opening %s: %w", file, err)
				}
				defer f.Close()
				src = f
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer database.ClosePgxPool(pool)

			repos := pgsql.NewRepositoryProvider(pool)
			created, err := importChart(ctx, services.NewAccountService(repos.AccountRepo), src, userID)
			if err != nil {
				return err
			}
			logger.Info("Chart imported", slog.Int("created", created))
			fmt.Fprintf(cmd.OutOrStdout(), "created %d accounts\n", created)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "chart CSV (code,name,type,parent_code,is_cash,description)")
	cmd.Flags().StringVar(&userID, "user", "system", "actor recorded on the created accounts")

	return cmd
}
