package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler exposes read-only views of the journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journal := rg.Group("/journal")
	{
		journal.GET("/accounts/:code", h.entriesForAccount)
		journal.GET("/vouchers/:id", h.entriesForVoucher)
	}
}

// entriesForAccount godoc
// @Summary List journal lines of an account
// @Description Lines are returned in posting order
// @Tags journal
// @Produce  json
// @Param   code path string true "Account code"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /journal/accounts/{code} [get]
func (h *journalHandler) entriesForAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seq, err := h.journalService.EntriesForAccount(c.Request.Context(), c.Param("code"), filter.DateRange)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	entries := []domain.PostedEntry{}
	for e, err := range seq {
		if err != nil {
			respondError(c, logger, err, "Failed to list journal entries")
			return
		}
		entries = append(entries, e)
	}
	logger.Debug("Journal entries listed", slog.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.ToPostedEntryResponses(entries))
}

// entriesForVoucher godoc
// @Summary List journal lines of a voucher
// @Tags journal
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /journal/vouchers/{id} [get]
func (h *journalHandler) entriesForVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.journalService.EntriesForVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostedEntryResponses(entries))
}
