package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/qurtubah/treasury/internal/domain/ledger"
)

// SetupValidator configures the request validator with JSON field names and
// the ledger enum tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		return ledger.PaymentType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("expensecategory", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ledger.ExpenseCategory(s).IsValid()
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ledger.PaymentMethod(s).IsValid()
	})
}
