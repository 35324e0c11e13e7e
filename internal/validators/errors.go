package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is the first failing field of a bind error, translated into a
// client message.
type FieldError struct {
	Field   string
	Message string
}

// FirstError extracts the first validation failure from err. Anything that is
// not a validator error (malformed JSON, wrong types) is reported on "body".
func FirstError(err error) FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return FieldError{Field: "body", Message: "The request body is malformed."}
	}

	fe := verrs[0]
	field := jsonPath(fe.Namespace())
	return FieldError{Field: field, Message: message(field, fe)}
}

// jsonPath turns "createReq.PetsServices[1].ServiceID" into
// "pets_services.1.service_id".
func jsonPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)

	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') || nextLower && prev >= 'A' && prev <= 'Z' {
				b.WriteByte('_')
			}
		}
		if isUpper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "phone":
		return fmt.Sprintf("The %s must contain 9 to 15 digits.", field)
	case "password":
		return "The password must have at least 8 characters including upper and lower case letters, a number and a symbol."
	case "hhmm":
		return fmt.Sprintf("The %s must use the format HH:MM.", field)
	case "weekday":
		return fmt.Sprintf("The %s must be a day of the week.", field)
	case "currency":
		return fmt.Sprintf("The %s must be a three letter currency code.", field)
	case "rfc":
		return fmt.Sprintf("The %s is not a valid RFC.", field)
	case "timezone":
		return fmt.Sprintf("The %s must be a valid IANA timezone.", field)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
