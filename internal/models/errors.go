package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds. Every error surfaced by this module matches exactly one of these
// with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("gateway request failed")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrCardinality   = errors.New("more than one result")
	ErrUsage         = errors.New("usage error")
)

var (
	ErrMissingCredential  = errors.Wrap(ErrConfiguration, "missing credential")
	ErrMalformedField     = errors.Wrap(ErrValidation, "malformed field")
	ErrMalformedTimestamp = errors.Wrap(ErrValidation, "malformed timestamp")
	ErrMalformedTime      = errors.Wrap(ErrValidation, "malformed time")
	ErrInvalidFreshness   = errors.Wrap(ErrUsage, "invalid freshness class")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindTransport
	KindValidation
	KindNotFound
	KindCardinality
	KindUsage
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindConfiguration: "configuration",
	KindTransport:     "transport",
	KindValidation:    "validation",
	KindNotFound:      "not-found",
	KindCardinality:   "cardinality",
	KindUsage:         "usage",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf classifies err into one of the closed set of error kinds.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCardinality):
		return KindCardinality
	case errors.Is(err, ErrUsage):
		return KindUsage
	default:
		return KindUnknown
	}
}

// HTTPStatusError is returned when the remote server responds with a status that
// is neither cacheable nor successful.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gateway request failed: http status response from %s: %s", e.URL, e.Status)
}

func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrTransport
}
