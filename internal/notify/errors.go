package notify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRecipients is returned when no recipients were provided and
// none could be resolved from configuration.
var ErrMissingRecipients = errors.New("no recipients provided")

// ErrMissingCredentials is the sentinel matched by errors.Is for any
// MissingCredentialsError.
var ErrMissingCredentials = errors.New("missing credentials")

// MissingCredentialsError reports every required credential field that
// could not be resolved from explicit arguments or configuration.
type MissingCredentialsError struct {
	Channel string
	Missing []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s: missing credentials: %s", e.Channel, strings.Join(e.Missing, ", "))
}

// Is reports ErrMissingCredentials so callers can match without the
// concrete type.
func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials
}
