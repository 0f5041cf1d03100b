package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return err.Fields[0].Error
	}
	return ""
}

// UnavailableError is returned when a backing service (database, mail) is not configured.
type UnavailableError struct {
	Code    string
	Message string
}

func (err UnavailableError) Error() string {
	return err.Message
}

var (
	ErrStoreNotConfigured = &UnavailableError{Code: "MONGO_NOT_CONFIGURED", Message: "database is not configured"}
	ErrMailNotConfigured  = &UnavailableError{Code: "SMTP_NOT_CONFIGURED", Message: "mail transport is not configured"}
)

// AsUnavailable returns the UnavailableError behind err, if any.
func AsUnavailable(err error) (*UnavailableError, bool) {
	uErr, ok := errors.Cause(err).(*UnavailableError)
	return uErr, ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
