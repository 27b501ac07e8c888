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

type departmentHandler struct {
	departmentService portssvc.DepartmentSvcFacade
}

// RegisterDepartmentRoutes registers routes related to departments.
func RegisterDepartmentRoutes(rg *gin.RouterGroup, departmentService portssvc.DepartmentSvcFacade) {
	h := &departmentHandler{departmentService: departmentService}

	departments := rg.Group("/departments")
	{
		departments.POST("", h.createDepartment)
		departments.GET("", h.listDepartments)
		departments.GET("/:id", h.getDepartment)
		departments.PUT("/:id", h.updateDepartment)
	}
}

// createDepartment godoc
// @Summary Create a department
// @Tags departments
// @Accept  json
// @Produce  json
// @Param   department body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Department name already exists"
// @Security BearerAuth
// @Router /departments [post]
func (h *departmentHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create department")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(dept))
}

// listDepartments godoc
// @Summary List departments
// @Tags departments
// @Produce  json
// @Param   status query string false "active or inactive"
// @Success 200 {array} dto.DepartmentResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /departments [get]
func (h *departmentHandler) listDepartments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status *domain.DepartmentStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.DepartmentStatus(raw)
		if s != domain.DepartmentActive && s != domain.DepartmentInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
			return
		}
		status = &s
	}

	depts, err := h.departmentService.ListDepartments(c.Request.Context(), status)
	if err != nil {
		respondError(c, logger, err, "Failed to list departments")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentResponses(depts))
}

// getDepartment godoc
// @Summary Get a department
// @Description Accepts the department ID or its name
// @Tags departments
// @Produce  json
// @Param   id path string true "Department ID or name"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Department not found"
// @Security BearerAuth
// @Router /departments/{id} [get]
func (h *departmentHandler) getDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dept, err := h.departmentService.ResolveDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve department")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentResponse(dept))
}

// updateDepartment godoc
// @Summary Update a department
// @Description Changes the head, budget, description, status or default expense account
// @Tags departments
// @Accept  json
// @Produce  json
// @Param   id path string true "Department ID"
// @Param   department body dto.UpdateDepartmentRequest true "Fields to update"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Department not found"
// @Security BearerAuth
// @Router /departments/{id} [put]
func (h *departmentHandler) updateDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	dept, err := h.departmentService.UpdateDepartment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update department")
		return
	}
	logger.Info("Department updated", slog.String("department_id", dept.DepartmentID))
	c.JSON(http.StatusOK, dto.ToDepartmentResponse(dept))
}
