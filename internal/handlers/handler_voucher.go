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

// IdempotencyKeyHeader lets clients retry voucher creation without posting twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// voucherHandler handles the voucher lifecycle.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// RegisterVoucherRoutes registers routes related to vouchers.
func RegisterVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.POST("/:id/approve", h.approveVoucher)
		vouchers.POST("/:id/reject", h.rejectVoucher)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Records an income, expense or transfer. The voucher is numbered and its two journal lines are posted atomically.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Replays return the original voucher"
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A request with the same key is in progress"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create voucher",
		slog.String("type", string(req.Type)),
		slog.String("department", req.Department),
		slog.String("amount", req.Amount.String()))

	created, err := h.voucherService.CreateVoucher(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVoucherDetailResponse(created))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Newest first (date, then number). Pass nextToken from the previous page to continue.
// @Tags vouchers
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   department query string false "Department ID or name"
// @Param   status query string false "Comma separated statuses"
// @Param   type query string false "income, expense or transfer"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vouchers, next, err := h.voucherService.ListVouchers(c.Request.Context(), domain.VoucherListParams{
		Filter:    filter,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to list vouchers")
		return
	}

	res := dto.ListVouchersResponse{Vouchers: make([]dto.VoucherResponse, len(vouchers)), NextToken: next}
	for i := range vouchers {
		res.Vouchers[i] = dto.ToVoucherResponse(&vouchers[i])
	}
	c.JSON(http.StatusOK, res)
}

// getVoucher godoc
// @Summary Get a voucher with its journal lines
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	v, err := h.voucherService.GetVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherDetailResponse(v))
}

// approveVoucher godoc
// @Summary Approve a pending voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not pending"
// @Security BearerAuth
// @Router /vouchers/{id}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	h.transition(c, domain.VoucherApproved)
}

// rejectVoucher godoc
// @Summary Reject a pending voucher
// @Description Appends reversing journal lines so the voucher nets to zero
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not pending"
// @Security BearerAuth
// @Router /vouchers/{id}/reject [post]
func (h *voucherHandler) rejectVoucher(c *gin.Context) {
	h.transition(c, domain.VoucherRejected)
}

func (h *voucherHandler) transition(c *gin.Context, to domain.VoucherStatus) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	var (
		v   *domain.Voucher
		err error
	)
	if to == domain.VoucherApproved {
		v, err = h.voucherService.ApproveVoucher(c.Request.Context(), voucherID, userID)
	} else {
		v, err = h.voucherService.RejectVoucher(c.Request.Context(), voucherID, userID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher status")
		return
	}

	logger.Info("Voucher status changed", slog.String("voucher_id", voucherID), slog.String("status", string(v.Status)))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(v))
}
