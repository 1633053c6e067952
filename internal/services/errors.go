package services

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerEmailExists = errors.New("customer with this email already exists")
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("external product not found")
	ErrCatalogUnavailable  = errors.New("catalog service unavailable")
	ErrAPIKeyNotFound      = errors.New("api key not found")
)

// ValidationError reports a request that is well-formed but not acceptable
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
