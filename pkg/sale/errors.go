package sale

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a sale id is not in the list.
var ErrNotFound = errors.New("sale not found")

// ValidationMessage is shown to the user whenever a save is blocked.
const ValidationMessage = "Preencha todos os campos obrigatórios e adicione pelo menos um produto"

// validationError reports a missing or invalid field in the order form.
type validationError struct {
	field   string
	message string
}

func (e validationError) Error() string { return e.message }

// NewValidationError reports a problem with one form field.
func NewValidationError(field, msg string) error {
	return validationError{field: field, message: msg}
}

// IsValidation helps callers distinguish user mistakes from infrastructure failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}

// ValidationField returns the offending field name, or "" when err is not a validation error.
func ValidationField(err error) string {
	var v validationError
	if errors.As(err, &v) {
		return v.field
	}
	return ""
}
