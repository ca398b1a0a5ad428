package handlers

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/estatedesk/internal/jalali"
)

var registerOnce sync.Once

// RegisterValidators adds the calendar tags to gin's validator:
// jdate accepts a Jalali date like 1403/5/1 and hhmm a time like 10:00.
// Both accept Persian and Arabic-Indic digits.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("jdate", validateJalaliDate)
		_ = v.RegisterValidation("hhmm", validateClock)
	})
}

func validateJalaliDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := jalali.ParseDate(s)
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := jalali.ParseClock(s)
	return err == nil
}
