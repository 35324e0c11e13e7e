package httperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Business error codes shared by domain, use cases and handlers.
const (
	CodeNotFound     = "not_found"
	CodeClosedAtDay  = "closed_at_day"
	CodeClosedAtTime = "closed_at_time"
	CodeFull         = "full"
	CodeValidation   = "validation_error"
	CodeInvalidState = "invalid_state"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
)

type BusinessError struct {
	Code    string
	Field   string
	Message string
}

func (e BusinessError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Field builds a BusinessError pointing at the offending request field.
func Field(code, field, message string) error {
	return BusinessError{Code: code, Field: field, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsUniqueViolation reports a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

