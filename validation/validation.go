// Package validation checks request payloads and reports failures as a
// field -> code map. Codes are i18n keys ("required", "invalid_email", ...).
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error makes Violations usable as an error value.
func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for f, c := range v {
		parts = append(parts, f+": "+c)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Required records "required" when value is blank.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// MinLen records code when value is shorter than n runes.
func MinLen(field, value string, n int, code string, v Violations) {
	if len([]rune(value)) < n {
		v[field] = code
	}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			if raw, ok := v.Interface().(json.RawMessage); ok {
				return string(raw)
			}
			return nil
		}, json.RawMessage{})
		_ = validate.RegisterValidation("jsonarray", isJSONArray)
		_ = validate.RegisterValidation("notblank", notBlank)
	})
	return validate
}

// Struct validates s using its `validate` tags. It returns nil when s is valid.
func Struct(s any) Violations {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Violations{"_": "invalid"}
	}
	v := Violations{}
	for _, fe := range verrs {
		v[fe.Field()] = code(fe.Tag())
	}
	return v
}

func code(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required"
	case "email":
		return "invalid_email"
	case "jsonarray":
		return "invalid_json_field"
	case "oneof":
		return "invalid_choice"
	case "min":
		return "too_short"
	case "max":
		return "too_long"
	default:
		return "invalid"
	}
}

// isJSONArray accepts empty values, null and JSON arrays.
func isJSONArray(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || s == "null" {
		return true
	}
	var arr []json.RawMessage
	return json.Unmarshal([]byte(s), &arr) == nil
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
