// internal/form/validate.go
//
// Forms subsystem: server-side validation and sanitisation.
//
// Context
//   The renderer outputs HTML containing a CSRF token and timestamp.  When
//   the browser posts, this file verifies the submission: CSRF, timing,
//   required fields, type constraints, regex patterns, option values, and
//   length limits.  It returns a Submission that handlers can trust.
//
// Workflow
//   •  Validate fetches the FormDef and checks CSRF + render timestamp
//      before per-field validation.
//   •  Each field is validated and trimmed by type.  Errors are captured in
//      []ErrorField, in both languages, so templates can highlight exact
//      issues.
//   •  Values are stored unescaped; html/template escapes on output.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	csrfField = "csrf_token"
	tsField   = "render_ts"
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single failure.  Name is empty for form-level
// problems (CSRF, timing).
type ErrorField struct {
	Name      string `json:"field"`
	Message   string `json:"message"`
	MessageAr string `json:"message_ar"`
}

// ValidationError wraps []ErrorField so user input errors can be told apart
// from system failures with errors.As.
type ValidationError struct{ Fields []ErrorField }

func (ve *ValidationError) Error() string { return "form validation failed" }

// ByField returns the errors keyed by field name, for re-rendering.
func (ve *ValidationError) ByField() map[string]ErrorField {
	out := make(map[string]ErrorField, len(ve.Fields))
	for _, f := range ve.Fields {
		if _, dup := out[f.Name]; !dup {
			out[f.Name] = f
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks posted values (and multipart files, if any) for formID.
func (e *Engine) Validate(formID string, posted url.Values, files map[string][]*multipart.FileHeader) (*Submission, []ErrorField) {
	fd, ok := e.Def(formID)
	if !ok {
		return nil, []ErrorField{msg("", "unknown_form")}
	}

	if tok := posted.Get(csrfField); tok == "" || !e.VerifyToken(tok) {
		return nil, []ErrorField{msg("", "csrf")}
	}
	if code := e.checkTiming(posted.Get(tsField)); code != "" {
		return nil, []ErrorField{msg("", code)}
	}

	var errs []ErrorField
	sub := &Submission{FormID: fd.ID, Values: make(map[string]any)}

	for i := range fd.Fields {
		f := &fd.Fields[i]

		if f.Type == "file" {
			fh := firstFile(files, f.Name)
			if fh == nil {
				if f.Required {
					errs = append(errs, fieldMsg(f, "required"))
				}
				continue
			}
			if sub.Files == nil {
				sub.Files = make(map[string]*multipart.FileHeader)
			}
			sub.Files[f.Name] = fh
			continue
		}

		raw := strings.TrimSpace(posted.Get(f.Name))
		if raw == "" {
			if f.Required {
				errs = append(errs, fieldMsg(f, "required"))
			}
			if f.Type == "checkbox" {
				sub.Values[f.Name] = false
			}
			continue
		}

		val, code := validateValue(f, raw)
		if code != "" {
			errs = append(errs, fieldMsg(f, code))
			continue
		}
		sub.Values[f.Name] = val
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return sub, nil
}

// -----------------------------------------------------------------------------
// Form-level helpers
// -----------------------------------------------------------------------------

// checkTiming returns a message code when the form was submitted too fast
// or too late.
func (e *Engine) checkTiming(tsRaw string) string {
	if tsRaw == "" {
		return "ts_missing"
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "ts_bad"
	}
	delta := e.now().Sub(time.UnixMicro(ts))
	switch {
	case delta < e.MinDelay:
		return "too_fast"
	case delta > e.MaxDelay:
		return "expired"
	}
	return ""
}

func firstFile(files map[string][]*multipart.FileHeader, name string) *multipart.FileHeader {
	if fs := files[name]; len(fs) > 0 && fs[0].Size > 0 {
		return fs[0]
	}
	return nil
}

// -----------------------------------------------------------------------------
// Field-level helpers
// -----------------------------------------------------------------------------

func validateValue(f *FieldDef, val string) (any, string) {
	switch f.Type {
	case "checkbox":
		return true, ""
	case "select":
		if !optionAllowed(f.Options, val) {
			return nil, "invalid"
		}
		return val, ""
	}

	if code := lengthCheck(f, val); code != "" {
		return nil, code
	}

	switch f.Type {
	case "email":
		addr, err := mail.ParseAddress(val)
		if err != nil || addr.Address != val {
			return nil, "invalid"
		}
	case "number":
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, "invalid"
		}
		return n, ""
	case "date":
		if _, err := time.Parse("2006-01-02", val); err != nil {
			return nil, "invalid"
		}
	}

	if f.re != nil && !f.re.MatchString(val) {
		return nil, "pattern"
	}
	return val, ""
}

// lengthCheck counts runes, so Arabic input is measured in characters.
func lengthCheck(f *FieldDef, s string) string {
	n := utf8.RuneCountInString(s)
	if f.MinLength > 0 && n < f.MinLength {
		return "too_short"
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return "too_long"
	}
	return ""
}

func optionAllowed(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

var messages = map[string][2]string{
	"unknown_form": {"Unknown form.", "نموذج غير معروف."},
	"csrf":         {"Security token invalid.  Please refresh and try again.", "رمز الأمان غير صالح. يرجى تحديث الصفحة والمحاولة مرة أخرى."},
	"ts_missing":   {"Timestamp missing.  Please reload the page.", "الطابع الزمني مفقود. يرجى إعادة تحميل الصفحة."},
	"ts_bad":       {"Bad timestamp.  Please retry.", "طابع زمني غير صالح. يرجى المحاولة مرة أخرى."},
	"too_fast":     {"Form submitted too quickly.  Please try again.", "تم إرسال النموذج بسرعة كبيرة. يرجى المحاولة مرة أخرى."},
	"expired":      {"Form expired.  Please reload and submit again.", "انتهت صلاحية النموذج. يرجى إعادة التحميل والإرسال مرة أخرى."},
	"required":     {"This field is required.", "هذا الحقل مطلوب."},
	"invalid":      {"Invalid input.", "قيمة غير صالحة."},
	"pattern":      {"Input does not match required format.", "القيمة لا تطابق الصيغة المطلوبة."},
	"too_short":    {"Must be at least %d characters.", "يجب ألا يقل عن %d حرفًا."},
	"too_long":     {"Must be at most %d characters.", "يجب ألا يزيد عن %d حرفًا."},
}

func msg(name, code string) ErrorField {
	m := messages[code]
	return ErrorField{Name: name, Message: m[0], MessageAr: m[1]}
}

func fieldMsg(f *FieldDef, code string) ErrorField {
	if f.ErrorMsg != "" && code != "required" {
		ar := f.ErrorMsgAr
		if ar == "" {
			ar = f.ErrorMsg
		}
		return ErrorField{Name: f.Name, Message: f.ErrorMsg, MessageAr: ar}
	}
	ef := msg(f.Name, code)
	switch code {
	case "too_short":
		ef.Message = fmt.Sprintf(ef.Message, f.MinLength)
		ef.MessageAr = fmt.Sprintf(ef.MessageAr, f.MinLength)
	case "too_long":
		ef.Message = fmt.Sprintf(ef.Message, f.MaxLength)
		ef.MessageAr = fmt.Sprintf(ef.MessageAr, f.MaxLength)
	}
	return ef
}
