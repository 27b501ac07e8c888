package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/export"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ExportOptions labels exported documents.
type ExportOptions struct {
	OrganizationName string
	CurrencyLabel    string
}

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	exportOpts       ExportOptions
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, opts ExportOptions) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		exportOpts:       opts,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, opts ExportOptions) {
	h := newReportingHandler(reportingService, opts)

	reports := rg.Group("/reports")
	{
		reports.GET("/cashbook", h.getCashbook)
		reports.GET("/ledger", h.getGeneralLedger)
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/department-spending", h.getDepartmentSpending)
		reports.GET("/summary", h.getSummary)

		reports.GET("/cashbook/export", h.exportCashbook)
		reports.GET("/trial-balance/export", h.exportTrialBalance)
		reports.GET("/department-spending/export", h.exportDepartmentSpending)
	}
}

// bindFilter parses the shared report query string, answering 400 on failure.
func bindFilter(c *gin.Context, logger *slog.Logger) (domain.Filter, bool) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return domain.Filter{}, false
	}
	f, err := q.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.Filter{}, false
	}
	return f, true
}

// serveReport runs build with the request filter and writes the stamped JSON response.
func serveReport[T any](c *gin.Context, name string, build func(context.Context, domain.Filter) (T, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("report", name))
	filter, ok := bindFilter(c, logger)
	if !ok {
		return
	}

	report, err := build(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate "+name)
		return
	}
	logger.Info("Report generated")
	c.JSON(http.StatusOK, dto.NewReportResponse(report, filter.DateRange))
}

// getCashbook godoc
// @Summary Cashbook
// @Description Cash and bank movements in posting order with a running balance
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Param account query string false "Cash account code"
// @Param status query string false "Comma separated statuses"
// @Param type query string false "Voucher type"
// @Success 200 {object} dto.ReportResponse[domain.Cashbook]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/cashbook [get]
func (h *reportingHandler) getCashbook(c *gin.Context) {
	serveReport(c, "cashbook", h.reportingService.Cashbook)
}

// getGeneralLedger godoc
// @Summary General ledger
// @Description Journal lines grouped by account in chart order
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Param account query string false "Account code"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} dto.ReportResponse[domain.GeneralLedger]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	serveReport(c, "general ledger", h.reportingService.GeneralLedger)
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Debit and credit totals for every account. Account filters are ignored.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} dto.ReportResponse[domain.TrialBalance]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	serveReport(c, "trial balance", h.reportingService.TrialBalance)
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} dto.ReportResponse[domain.BalanceSheet]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	serveReport(c, "balance sheet", h.reportingService.BalanceSheet)
}

// getIncomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} dto.ReportResponse[domain.IncomeStatement]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	serveReport(c, "income statement", h.reportingService.IncomeStatement)
}

// getDepartmentSpending godoc
// @Summary Department spending
// @Description Budget utilization from approved expense vouchers only
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Success 200 {object} dto.ReportResponse[[]domain.DepartmentSpend]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/department-spending [get]
func (h *reportingHandler) getDepartmentSpending(c *gin.Context) {
	serveReport(c, "department spending", h.reportingService.DepartmentSpending)
}

// getSummary godoc
// @Summary Financial summary
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Success 200 {object} dto.ReportResponse[domain.FinancialSummary]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	serveReport(c, "financial summary", h.reportingService.FinancialSummary)
}

// exportReport renders a report table in the format named by ?format=.
func (h *reportingHandler) exportReport(c *gin.Context, slug, title string, build func(context.Context, domain.Filter) (export.Table, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("report", slug))
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, ok := bindFilter(c, logger)
	if !ok {
		return
	}

	table, err := build(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to export "+title)
		return
	}

	now := h.now()
	header := export.Header{
		Organization: h.exportOpts.OrganizationName,
		Title:        title,
		Currency:     h.exportOpts.CurrencyLabel,
		GeneratedAt:  now,
		Period:       filter.DateRange,
	}
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.FileName(slug, now))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, header, table); err != nil {
		logger.Error("Failed to write export", slog.String("error", err.Error()))
		return
	}
	logger.Info("Report exported", slog.String("format", string(format)), slog.Int("rows", len(table.Rows)))
}

// exportCashbook godoc
// @Summary Export the cashbook
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param department query string false "Department ID or name"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/cashbook/export [get]
func (h *reportingHandler) exportCashbook(c *gin.Context) {
	h.exportReport(c, "cashbook", "Cashbook", func(ctx context.Context, f domain.Filter) (export.Table, error) {
		book, err := h.reportingService.Cashbook(ctx, f)
		if err != nil {
			return export.Table{}, err
		}
		return export.CashbookTable(book), nil
	})
}

// exportTrialBalance godoc
// @Summary Export the trial balance
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/trial-balance/export [get]
func (h *reportingHandler) exportTrialBalance(c *gin.Context) {
	h.exportReport(c, "trial-balance", "Trial Balance", func(ctx context.Context, f domain.Filter) (export.Table, error) {
		tb, err := h.reportingService.TrialBalance(ctx, f)
		if err != nil {
			return export.Table{}, err
		}
		return export.TrialBalanceTable(tb), nil
	})
}

// exportDepartmentSpending godoc
// @Summary Export department spending
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/department-spending/export [get]
func (h *reportingHandler) exportDepartmentSpending(c *gin.Context) {
	h.exportReport(c, "department-spending", "Department Spending", func(ctx context.Context, f domain.Filter) (export.Table, error) {
		spend, err := h.reportingService.DepartmentSpending(ctx, f)
		if err != nil {
			return export.Table{}, err
		}
		return export.DepartmentSpendingTable(spend), nil
	})
}
