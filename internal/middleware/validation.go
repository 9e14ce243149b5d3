package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wexxqt/ecatsulta-api/pkg/security"
)

// RegisterValidators installs the domain validation tags on gin's binding
// engine and makes validation errors report JSON field names. Call once
// at startup before routes are served.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// passkey: exactly six digits.
	_ = v.RegisterValidation("passkey", func(fl validator.FieldLevel) bool {
		return security.ValidPasskey(fl.Field().String())
	})
}
