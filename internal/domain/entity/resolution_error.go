package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a resolution failure.
type ErrorKind string

const (
	KindInvalidProfile      ErrorKind = "InvalidProfile"
	KindDuplicateProfile    ErrorKind = "DuplicateProfile"
	KindInvalidChainID      ErrorKind = "InvalidChainID"
	KindUnknownProfile      ErrorKind = "UnknownProfile"
	KindMissingCredential   ErrorKind = "MissingCredential"
	KindMalformedCredential ErrorKind = "MalformedCredential"
	KindMissingEndpoint     ErrorKind = "MissingEndpoint"
	KindInvalidEndpoint     ErrorKind = "InvalidEndpoint"
	KindChainIDMismatch     ErrorKind = "ChainIDMismatch"
)

// Sentinel errors, one per kind. A *ResolutionError unwraps to the sentinel of its kind.
var (
	ErrEmptyProfileName    = errors.New("network_resolver: profile name is empty")
	ErrDuplicateProfile    = errors.New("network_resolver: duplicate profile")
	ErrInvalidChainID      = errors.New("network_resolver: invalid chain id")
	ErrUnknownProfile      = errors.New("network_resolver: unknown profile")
	ErrMissingCredential   = errors.New("network_resolver: missing credential")
	ErrMalformedCredential = errors.New("network_resolver: malformed credential")
	ErrMissingEndpoint     = errors.New("network_resolver: missing endpoint")
	ErrInvalidEndpoint     = errors.New("network_resolver: invalid endpoint")
	ErrChainIDMismatch     = errors.New("network_resolver: chain id mismatch")
)

var sentinelByKind = map[ErrorKind]error{
	KindInvalidProfile:      ErrEmptyProfileName,
	KindDuplicateProfile:    ErrDuplicateProfile,
	KindInvalidChainID:      ErrInvalidChainID,
	KindUnknownProfile:      ErrUnknownProfile,
	KindMissingCredential:   ErrMissingCredential,
	KindMalformedCredential: ErrMalformedCredential,
	KindMissingEndpoint:     ErrMissingEndpoint,
	KindInvalidEndpoint:     ErrInvalidEndpoint,
	KindChainIDMismatch:     ErrChainIDMismatch,
}

// ResolutionError carries the minimal context needed to fix a configuration.
// Variable is a variable name; Reason describes the shape of a bad value, never its content.
type ResolutionError struct {
	Kind     ErrorKind
	Profile  string
	Variable string
	Reason   string
}

// NewResolutionError builds a ResolutionError of the given kind.
func NewResolutionError(kind ErrorKind, profile, variable, reason string) *ResolutionError {
	return &ResolutionError{Kind: kind, Profile: profile, Variable: variable, Reason: reason}
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Profile != "" {
		fmt.Fprintf(&b, ": profile %q", e.Profile)
	}
	if e.Variable != "" {
		fmt.Fprintf(&b, ", variable %s", e.Variable)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

func (e *ResolutionError) Unwrap() error {
	return sentinelByKind[e.Kind]
}

// KindOf returns the kind of err if it is (or wraps) a *ResolutionError.
func KindOf(err error) (ErrorKind, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
