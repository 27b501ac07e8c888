package main

import (
	"os"

	"github.com/SscSPs/ngo_fund_ledger/internal/commands"
)

// @title NGO Fund Ledger API
// @version 1.0
// @description Double-entry bookkeeping for NGO vouchers, departments and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
