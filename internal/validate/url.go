// Package validate holds input checks run before any side effect.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidURL = errors.New("URL is not valid")

var v = validator.New(validator.WithRequiredStructEnabled())

// URL accepts absolute http(s) URLs with a host.
func URL(s string) error {
	if err := v.Var(strings.TrimSpace(s), "required,http_url"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}

	return nil
}

func IsURL(s string) bool {
	return URL(s) == nil
}
