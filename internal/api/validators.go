package api

import (
	"reflect"
	"strings"
	"sync"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the enum validators used by request binding tags
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Report fields by their JSON names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
			return domain.AccountType(strings.ToUpper(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("categorytype", func(fl validator.FieldLevel) bool {
			return domain.CategoryType(strings.ToUpper(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
			switch strings.ToLower(fl.Field().String()) {
			case utils.PeriodDay, utils.PeriodWeek, utils.PeriodMonth, utils.PeriodYear, utils.PeriodAll:
				return true
			}
			return false
		})
	})
}
