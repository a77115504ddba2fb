// Package forms binds submitted forms and turns validation failures into
// messages the user can read.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 .\-]{8,15}$`)

	setupOnce sync.Once
)

// Setup registers the custom rules on gin's validator. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("month", pattern(monthRe))
		_ = v.RegisterValidation("date", pattern(dateRe))
		_ = v.RegisterValidation("clock", pattern(clockRe))
		_ = v.RegisterValidation("phone", pattern(phoneRe))
	})
}

func pattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || re.MatchString(s)
	}
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// First is the message shown in the form banner.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Add appends a rule failure found outside the validator.
func (e *Errors) Add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}

// Bind fills dst from the request and validates it. The returned Errors is
// nil when the form is valid.
func Bind(c *gin.Context, dst any) Errors {
	Setup()
	if err := c.ShouldBind(dst); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate maps a binding error to Vietnamese messages.
func Translate(err error) Errors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Message: "Dữ liệu không hợp lệ"}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s là bắt buộc", name)
	case "email":
		return fmt.Sprintf("%s không hợp lệ", name)
	case "min":
		if numeric {
			return fmt.Sprintf("%s không được nhỏ hơn %s", name, fe.Param())
		}
		return fmt.Sprintf("%s phải có ít nhất %s ký tự", name, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%s không được lớn hơn %s", name, fe.Param())
		}
		return fmt.Sprintf("%s không được dài quá %s ký tự", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s không được nhỏ hơn %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s không được lớn hơn %s", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s không khớp", name)
	case "oneof":
		return fmt.Sprintf("%s không hợp lệ", name)
	case "month", "date", "clock":
		return fmt.Sprintf("%s không đúng định dạng", name)
	case "phone":
		return fmt.Sprintf("%s không phải số điện thoại hợp lệ", name)
	}
	return fmt.Sprintf("%s không hợp lệ", name)
}

// SplitList turns a comma or newline separated input into trimmed values.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Optional returns nil for a blank string.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
