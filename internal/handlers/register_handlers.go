package handlers

import (
	"net/http"

	"github.com/SscSPs/ngo_fund_ledger/cmd/docs"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts the public probes and the JWT-protected /api/v1 ledger tree.
// Custom binding validators must already be registered, see RegisterValidators.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerLedgerRoutes(v1, cfg, services)

	if !cfg.IsProduction {
		docs.SwaggerInfo.BasePath = "/api/v1"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerLedgerRoutes wires one route group per aggregate.
func registerLedgerRoutes(v1 *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	RegisterAccountRoutes(v1, services.Account)
	RegisterDepartmentRoutes(v1, services.Department)
	RegisterVoucherRoutes(v1, services.Voucher)
	RegisterJournalRoutes(v1, services.Journal)
	RegisterReportingRoutes(v1, services.Reporting, ExportOptions{
		OrganizationName: cfg.OrganizationName,
		CurrencyLabel:    cfg.CurrencyLabel,
	})
}
