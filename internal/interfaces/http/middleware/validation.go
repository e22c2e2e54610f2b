package middleware

import (
	"reflect"
	"strings"

	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator engine: error messages use
// JSON field names and domain enums get their own binding tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("allocation_pattern", validAllocationPattern)
}

func validAllocationPattern(fl validator.FieldLevel) bool {
	switch distribution.AllocationPattern(fl.Field().String()) {
	case distribution.PatternEqual,
		distribution.PatternNeedBased,
		distribution.PatternShariah,
		distribution.PatternCustom,
		distribution.PatternHybrid:
		return true
	}
	return false
}
