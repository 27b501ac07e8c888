package mapping

import (
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
)

// ToModelDepartment converts a domain Department to a model Department
func ToModelDepartment(d domain.Department) models.Department {
	return models.Department{
		DepartmentID:       d.DepartmentID,
		Name:               d.Name,
		Head:               d.Head,
		Budget:             d.Budget,
		Description:        d.Description,
		Status:             string(d.Status),
		ExpenseAccountCode: nullString(d.ExpenseAccountCode),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDepartment converts a model Department to a domain Department
func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID:       m.DepartmentID,
		Name:               m.Name,
		Head:               m.Head,
		Budget:             m.Budget,
		Description:        m.Description,
		Status:             domain.DepartmentStatus(m.Status),
		ExpenseAccountCode: m.ExpenseAccountCode.String,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
