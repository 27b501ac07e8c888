package commands

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/export"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/memory"
)

const demoUser = "demo"

type demoDepartment struct {
	name    string
	budget  int64
	account string
}

var demoDepartments = []demoDepartment{
	{name: "Health", budget: 1200000, account: "E-100"},
	{name: "Education", budget: 900000, account: "E-200"},
	{name: "Administration", budget: 300000, account: "E-500"},
}

type demoVoucher struct {
	department  string
	description string
	amount      int64
	kind        domain.VoucherType
	approve     bool
}

var demoVouchers = []demoVoucher{
	{department: "Administration", description: "Quarterly donor grant", amount: 1500000, kind: domain.VoucherIncome, approve: true},
	{department: "Health", description: "Clinic medical supplies", amount: 450000, kind: domain.VoucherExpense, approve: true},
	{department: "Education", description: "Exercise books for term one", amount: 120000, kind: domain.VoucherExpense},
}

// seedDemo loads the sample chart, departments and a few vouchers into the container.
func seedDemo(ctx context.Context, c *portssvc.ServiceContainer) error {
	if _, err := importChart(ctx, c.Account, bytes.NewReader(sampleChart), demoUser); err != nil {
		return fmt.Errorf("importing chart: %w", err)
	}
	for _, d := range demoDepartments {
		code := d.account
		if _, err := c.Department.CreateDepartment(ctx, dto.CreateDepartmentRequest{
			Name:               d.name,
			Budget:             decimal.NewFromInt(d.budget),
			ExpenseAccountCode: &code,
		}, demoUser); err != nil {
			return fmt.Errorf("creating department %s: %w", d.name, err)
		}
	}
	for _, v := range demoVouchers {
		created, err := c.Voucher.CreateVoucher(ctx, dto.CreateVoucherRequest{
			Department:  v.department,
			Description: v.description,
			Amount:      decimal.NewFromInt(v.amount),
			Type:        v.kind,
		}, demoUser)
		if err != nil {
			return fmt.Errorf("creating voucher %q: %w", v.description, err)
		}
		if !v.approve {
			continue
		}
		if _, err := c.Voucher.ApproveVoucher(ctx, created.VoucherID, demoUser); err != nil {
			return fmt.Errorf("approving %s: %w", created.VoucherNumber, err)
		}
	}
	return nil
}

func newDemoCommand() *cobra.Command {
	var (
		report string
		format string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a sample ledger in memory and print a report",
		Long:  "Seeds an in-memory ledger with the sample chart, three departments and three vouchers, then renders a report. No database is needed.",
		Args:  cobra.NoArgs,
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

			store := memory.NewStore()
			container := services.NewServiceContainer(cfg, store.Provider())
			if err := seedDemo(ctx, container); err != nil {
				return err
			}

			_, err = writeReport(ctx, container.Reporting, reportRequest{
				Name:     report,
				Format:   f,
				Org:      cfg.OrganizationName,
				Currency: cfg.CurrencyLabel,
				Now:      time.Now().In(cfg.Location),
			}, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&report, "report", "trial-balance", fmt.Sprintf("report to render, one of %v", reportNames()))
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")

	return cmd
}
