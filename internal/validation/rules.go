package validation

import (
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/stockdesk/frontend/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// HTTPURL validates an absolute http or https URL with a host.
var HTTPURL = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_url_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_url", "must be an absolute http or https URL")
	}
	return nil
})

// OneOf validates that a string is one of the allowed values.
func OneOf(allowed ...string) validation.Rule {
	values := make([]interface{}, len(allowed))
	for i, a := range allowed {
		values[i] = a
	}
	return validation.In(values...).Error("must be one of the allowed values")
}

// KeyValue validates a "key=value" pair with a non-empty key, as taken by the
// send command's --param flag.
var KeyValue = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_key_value_type", "must be a string")
	}
	key, _, found := strings.Cut(s, "=")
	if !found {
		return validation.NewError("validation_key_value", "must have the form key=value")
	}
	if key == "" {
		return validation.NewError("validation_key_value", "key must not be empty")
	}
	return nil
})
