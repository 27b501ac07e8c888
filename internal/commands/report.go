package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/export"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/ngo_fund_ledger/pkg/database"
)

type reportKind struct {
	title string
	build func(ctx context.Context, rs portssvc.ReportingService, f domain.Filter) (export.Table, error)
}

var reportKinds = map[string]reportKind{
	"cashbook": {
		title: "Cashbook",
		build: func(ctx context.Context, rs portssvc.ReportingService, f domain.Filter) (export.Table, error) {
			book, err := rs.Cashbook(ctx, f)
			if err != nil {
				return export.Table{}, err
			}
			return export.CashbookTable(book), nil
		},
	},
	"trial-balance": {
		title: "Trial Balance",
		build: func(ctx context.Context, rs portssvc.ReportingService, f domain.Filter) (export.Table, error) {
			tb, err := rs.TrialBalance(ctx, f)
			if err != nil {
				return export.Table{}, err
			}
			return export.TrialBalanceTable(tb), nil
		},
	},
	"department-spending": {
		title: "Department Spending",
		build: func(ctx context.Context, rs portssvc.ReportingService, f domain.Filter) (export.Table, error) {
			spend, err := rs.DepartmentSpending(ctx, f)
			if err != nil {
				return export.Table{}, err
			}
			return export.DepartmentSpendingTable(spend), nil
		},
	},
}

func reportNames() []string {
	names := make([]string, 0, len(reportKinds))
	for name := range reportKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reportRequest is everything writeReport needs besides the service.
type reportRequest struct {
	Name     string
	Query    dto.ReportQuery
	Format   export.Format
	Org      string
	Currency string
	Now      time.Time
}

// writeReport computes one report and renders it to w.
func writeReport(ctx context.Context, rs portssvc.ReportingService, req reportRequest, w io.Writer) (int, error) {
	kind, ok := reportKinds[req.Name]
	if !ok {
		return 0, fmt.Errorf("unknown report %q (want one of %v)", req.Name, reportNames())
	}
	filter, err := req.Query.ToFilter()
	if err != nil {
		return 0, err
	}
	table, err := kind.build(ctx, rs, filter)
	if err != nil {
		return 0, err
	}
	header := export.Header{
		Organization: req.Org,
		Title:        kind.title,
		Currency:     req.Currency,
		GeneratedAt:  req.Now,
		Period:       filter.DateRange,
	}
	if err := export.Write(w, req.Format, header, table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}

func newReportCommand() *cobra.Command {
	var (
		query  dto.ReportQuery
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:       "report <name>",
		Short:     "Export a report from the ledger database",
		Long:      fmt.Sprintf("Renders one of %v as CSV or XLSX.", reportNames()),
		Args:      cobra.ExactArgs(1),
		ValidArgs: reportNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
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

			container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool))

			w := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}

			rows, err := writeReport(ctx, container.Reporting, reportRequest{
				Name:     args[0],
				Query:    query,
				Format:   f,
				Org:      cfg.OrganizationName,
				Currency: cfg.CurrencyLabel,
				Now:      time.Now().In(cfg.Location),
			}, w)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", rows, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query.From, "from", "", "first date included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.To, "to", "", "last date included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.Department, "department", "", "department ID or name")
	cmd.Flags().StringVar(&query.Status, "status", "", "comma separated voucher statuses")
	cmd.Flags().StringVar(&query.Type, "type", "", "voucher type")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")

	return cmd
}
