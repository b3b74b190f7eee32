// internal/api/decode.go
//
// JSON body decoding and validation for the admin API.
//
// Context
// -------
// Every admin mutation decodes its body into one input struct from
// internal/content and validates it once, here.  The validator instance is
// shared and carries one custom tag:
//
//	slug   empty, or already in MakeSlug normal form (ValidSlug)
//
// Workflow
// --------
//  1. Body is capped at maxBody bytes and decoded with DisallowUnknownFields.
//  2. Decode errors → *BadRequestError (400).
//  3. validator errors → *ValidationError (422) listing every field.
//
// Notes
// -----
// • Field names in ValidationError use the `json` tag, not the Go name.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/agrocms/internal/routing"
)

const maxBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || routing.ValidSlug(s)
	})
	return v
}

/*──────────────────────────── errors ────────────────────────────*/

// FieldError describes one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned when an input struct fails its rules.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// BadRequestError wraps a body that could not be decoded.
type BadRequestError struct{ Err error }

func (e *BadRequestError) Error() string { return "malformed request: " + e.Err.Error() }
func (e *BadRequestError) Unwrap() error { return e.Err }

/*──────────────────────────── decode ────────────────────────────*/

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return &BadRequestError{Err: err}
	}
	if dec.More() {
		return &BadRequestError{Err: errors.New("trailing data after JSON object")}
	}
	return Validate(dst)
}

// Validate runs the struct rules on v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldPath drops the root struct name: "ProductInput.sections[0].title" →
// "sections[0].title".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
