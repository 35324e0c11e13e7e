package validators

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

var (
	phoneRe    = regexp.MustCompile(`^[0-9]{9,15}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	rfcRe      = regexp.MustCompile(`(?i)^[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}$`)
)

// Register adds the custom tags to gin's validator engine. It is safe to call
// more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	tags := map[string]validator.Func{
		"phone":    isPhone,
		"password": isStrongPassword,
		"hhmm":     isClock,
		"weekday":  isWeekday,
		"currency": isCurrency,
		"rfc":      isRFC,
		"timezone": isTimezone,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// jsonName makes error namespaces use the json field names clients send.
func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func isPhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

func isCurrency(fl validator.FieldLevel) bool {
	return currencyRe.MatchString(fl.Field().String())
}

func isRFC(fl validator.FieldLevel) bool {
	return rfcRe.MatchString(fl.Field().String())
}

func isTimezone(fl validator.FieldLevel) bool {
	return timezone.IsValid(fl.Field().String())
}

func isClock(fl validator.FieldLevel) bool {
	_, err := schedule.ParseClock(fl.Field().String())
	return err == nil
}

func isWeekday(fl validator.FieldLevel) bool {
	_, ok := schedule.ParseWeekday(fl.Field().String())
	return ok
}

// isStrongPassword wants at least 8 characters with a lower case letter, an
// upper case letter, a digit and a symbol.
func isStrongPassword(fl validator.FieldLevel) bool {
	return StrongPassword(fl.Field().String())
}

func StrongPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
