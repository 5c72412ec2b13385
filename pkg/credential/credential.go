// Package credential loads the Randori API token from the process environment.
package credential

import (
	"errors"
	"fmt"
	"os"
)

const (
	// EnvVar is the environment variable holding the API token.
	EnvVar = "RANDORI_API_KEY"

	// MinLength is the shortest token accepted. This is a sanity check
	// against truncated values, not a format check.
	MinLength = 100
)

var (
	// ErrMissingCredential is returned when EnvVar is not set.
	ErrMissingCredential = errors.New("missing environment variable " + EnvVar)

	// ErrCredentialTooShort is returned when the token is shorter than MinLength.
	ErrCredentialTooShort = errors.New("api token too short")
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Credential is the opaque API token sent verbatim as the Authorization header.
type Credential struct {
	value string
}

// Load reads and sanity-checks the token. A nil lookup uses os.LookupEnv.
func Load(lookup LookupFunc) (Credential, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(EnvVar)
	if !ok {
		return Credential{}, ErrMissingCredential
	}

	if len(value) < MinLength {
		return Credential{}, fmt.Errorf("%w: got %d characters, need at least %d",
			ErrCredentialTooShort, len(value), MinLength)
	}

	return Credential{value: value}, nil
}

// Value returns the raw token.
func (c Credential) Value() string {
	return c.value
}

// Len returns the token length.
func (c Credential) Len() int {
	return len(c.value)
}

// String redacts the token so it never ends up in logs.
func (c Credential) String() string {
	if c.value == "" {
		return "<empty>"
	}
	return fmt.Sprintf("<redacted:%d>", len(c.value))
}
