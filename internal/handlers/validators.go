package handlers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the ledger's custom binding tags on gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("account_type", validateAccountType); err != nil {
			return
		}
		if err = v.RegisterValidation("voucher_type", validateVoucherType); err != nil {
			return
		}
		err = v.RegisterValidation("voucher_status", validateVoucherStatusList)
	})
	return err
}

func validateAccountType(fl validator.FieldLevel) bool {
	_, ok := domain.ParseAccountType(fl.Field().String())
	return ok
}

func validateVoucherType(fl validator.FieldLevel) bool {
	return domain.VoucherType(fl.Field().String()).IsValid()
}

// validateVoucherStatusList accepts a single status or a comma separated list.
func validateVoucherStatusList(fl validator.FieldLevel) bool {
	for _, s := range strings.Split(fl.Field().String(), ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !domain.VoucherStatus(s).IsValid() {
			return false
		}
	}
	return true
}
