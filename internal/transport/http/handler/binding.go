package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Loose international pattern, optional + and country digit.
var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// RegisterValidators installs the custom binding rules. Call once before
// building an engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
	}
}
