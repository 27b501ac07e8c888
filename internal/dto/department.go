package dto

import (
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDepartmentRequest defines the data needed to create a department.
type CreateDepartmentRequest struct {
	Name               string          `json:"name" binding:"required"`
	Head               string          `json:"head"`
	Budget             decimal.Decimal `json:"budget"`
	Description        string          `json:"description"`
	ExpenseAccountCode *string         `json:"expenseAccountCode"`
}

// UpdateDepartmentRequest defines the mutable department fields.
type UpdateDepartmentRequest struct {
	Head               *string                  `json:"head"`
	Budget             *decimal.Decimal         `json:"budget"`
	Description        *string                  `json:"description"`
	Status             *domain.DepartmentStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	ExpenseAccountCode *string                  `json:"expenseAccountCode"`
}

// DepartmentResponse defines the data returned for a department.
type DepartmentResponse struct {
	DepartmentID       string                  `json:"departmentID"`
	Name               string                  `json:"name"`
	Head               string                  `json:"head"`
	Budget             decimal.Decimal         `json:"budget"`
	Description        string                  `json:"description"`
	Status             domain.DepartmentStatus `json:"status"`
	ExpenseAccountCode string                  `json:"expenseAccountCode,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	LastUpdatedAt      time.Time               `json:"lastUpdatedAt"`
}

// ToDepartmentResponse converts a domain.Department to its DTO.
func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID:       d.DepartmentID,
		Name:               d.Name,
		Head:               d.Head,
		Budget:             d.Budget,
		Description:        d.Description,
		Status:             d.Status,
		ExpenseAccountCode: d.ExpenseAccountCode,
		CreatedAt:          d.CreatedAt,
		LastUpdatedAt:      d.LastUpdatedAt,
	}
}

// ToDepartmentResponses converts a slice of departments.
func ToDepartmentResponses(ds []domain.Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(ds))
	for i, d := range ds {
		res[i] = ToDepartmentResponse(&d)
	}
	return res
}
