package collector

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
)

// ErrorKind classifies a per-target failure.
type ErrorKind int

const (
	ErrConfig ErrorKind = iota
	ErrConnection
	ErrQuery
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfig:
		return "config"
	case ErrConnection:
		return "connection"
	case ErrQuery:
		return "query"
	}
	return "unknown"
}

// CollectionError scopes a failure to a single target for a single cycle.
// No kind is fatal to the process; the next cycle retries naturally.
type CollectionError struct {
	Kind    ErrorKind
	Host    string
	Section string
	cause   error
}

// NewConfigError marks a section that failed to resolve into a target.
// No host is known at that point, so only the section name is recorded.
func NewConfigError(section string, cause error) *CollectionError {
	return &CollectionError{Kind: ErrConfig, Section: section, cause: cause}
}

func newError(kind ErrorKind, t config.Target, cause error) *CollectionError {
	return &CollectionError{Kind: kind, Host: t.Host, Section: t.Section, cause: cause}
}

func (e *CollectionError) Error() string {
	if e.Host == "" {
		return fmt.Sprintf("%s error in section %q: %v", e.Kind, e.Section, e.cause)
	}
	return fmt.Sprintf("%s error on target %s (section %q): %v", e.Kind, e.Host, e.Section, e.cause)
}

// Cause exposes the root cause to juju errors.Cause. The stored error may
// itself be a trace wrapper, so unwrap it rather than returning it directly.
func (e *CollectionError) Cause() error {
	return errors.Cause(e.cause)
}
