package dto

import (
	"reflect"
	"sync"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators adds the custom validation tags used by request DTOs to
// gin's validator engine. Safe to call more than once. It panics if a tag
// cannot be registered.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Validate decimals through their string form so tags like "required"
		// and "money" apply to them.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		if err := v.RegisterValidation("money", validateMoney); err != nil {
			panic("dto: registering money validator: " + err.Error())
		}
	})
}

// validateMoney accepts positive amounts with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return domain.ValidateAmount(d) == nil
}
