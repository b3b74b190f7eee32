// internal/config/validator.go
//
// Field rules live in the validate tags of model.go.  Rules that span
// several sections are registered here as a struct-level validation on
// Config:
//
//   - production must not run on the development session secret;
//   - production must not watch templates.
//
// loader.go calls validateStruct right after secrets are resolved.  Any
// failure aborts startup, and cmd/web falls back to the static "service
// unavailable" page.

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(crossSection, Config{})
	return val
}

func crossSection(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.App.Env != "production" {
		return
	}
	if c.Session.Secret == devSessionSecret {
		sl.ReportError(c.Session.Secret, "Session.Secret", "secret", "nodevsecret", "")
	}
	if c.View.Watch {
		sl.ReportError(c.View.Watch, "View.Watch", "watch", "nowatch", "")
	}
}

// validateStruct returns every failed rule as one error, or nil.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	msg := "config:"
	for _, fe := range errs {
		msg += fmt.Sprintf(" %s failed %q;", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%s %w", msg, err)
}

