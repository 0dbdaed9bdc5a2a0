package playlist

import (
	"fmt"
)

// ErrorKind classifies resolver and reconciler failures.
type ErrorKind int

const (
	// InvalidIdentifier means the string did not parse as an identifier
	InvalidIdentifier ErrorKind = iota + 1
	// WrongResourceKind means the identifier parsed to an unexpected kind
	WrongResourceKind
	// NotFound means no container member matched the identifier
	NotFound
	// RemovalFailed means the container refused to remove the member
	RemovalFailed
	// StaleIndex means the container changed between lookup and removal
	StaleIndex
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case InvalidIdentifier:
		return "invalid_identifier"
	case WrongResourceKind:
		return "wrong_resource_kind"
	case NotFound:
		return "not_found"
	case RemovalFailed:
		return "removal_failed"
	case StaleIndex:
		return "stale_index"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidIdentifier = &Error{Kind: InvalidIdentifier}
	ErrWrongResourceKind = &Error{Kind: WrongResourceKind}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrRemovalFailed     = &Error{Kind: RemovalFailed}
	ErrStaleIndex        = &Error{Kind: StaleIndex}
)

// Error is the failure returned by every resolver and reconciler operation.
type Error struct {
	Kind ErrorKind
	URI  string

	// Observed and Expected are the kind labels of a WrongResourceKind failure.
	Observed string
	Expected string

	// Index is the container position involved in a removal, or -1.
	Index int

	// Pinned is set on RemovalFailed. The handle was pinned before removal
	// was attempted and stays pinned until the caller unpins it.
	Pinned *Pinned

	// Err is the underlying library error, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidIdentifier:
		if e.Err != nil {
			return fmt.Sprintf("failed to get link from URI %q: %v", e.URI, e.Err)
		}
		return fmt.Sprintf("failed to get link from URI %q", e.URI)
	case WrongResourceKind:
		return fmt.Sprintf("the URI %q was of type '%s', not the expected '%s'", e.URI, e.Observed, e.Expected)
	case NotFound:
		return fmt.Sprintf("there is no link with the URI %q inside the container", e.URI)
	case RemovalFailed:
		return fmt.Sprintf("error '%v' when removing %q from the container", e.Err, e.URI)
	case StaleIndex:
		return fmt.Sprintf("container changed after %q was found at index %d", e.URI, e.Index)
	default:
		return fmt.Sprintf("playlist: %s", e.Kind)
	}
}

// Unwrap returns the underlying library error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.URI == "" && t.Err == nil
}
