package playlist

import (
	"listify/internal/link"
	"listify/internal/logging"
)

// Object is a live, reference-counted object owned by the media library.
type Object interface {
	AddRef()
	Release()
}

// Library is the part of the media library that identifiers are resolved
// against.
type Library interface {
	// ParseLink turns an identifier into its kind and a borrowed handle.
	ParseLink(uri string) (link.Kind, Object, error)
	// LinkString serializes a live object back to its canonical identifier.
	LinkString(obj Object) (string, error)
}

// Reference is a resolved identifier. Object is borrowed from the library
// and only stays valid while something else holds it, unless it is pinned.
type Reference struct {
	Kind   link.Kind
	URI    string
	Object Object
}

// Resolver turns identifier strings into typed references.
type Resolver struct {
	lib      Library
	observer Observer
}

// NewResolver creates a resolver over lib. A nil observer is allowed.
func NewResolver(lib Library, observer Observer) *Resolver {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Resolver{lib: lib, observer: observer}
}

// Resolve parses uri and checks that it is of the expected kind.
func (r *Resolver) Resolve(uri string, expected link.Kind) (*Reference, error) {
	kind, obj, err := r.lib.ParseLink(uri)
	if err != nil {
		rerr := &Error{Kind: InvalidIdentifier, URI: uri, Index: -1, Err: err}
		r.observer.ObserveResolve(expected, rerr)
		return nil, rerr
	}

	if kind != expected {
		rerr := &Error{
			Kind:     WrongResourceKind,
			URI:      uri,
			Observed: kind.String(),
			Expected: expected.String(),
			Index:    -1,
		}
		logging.Debug("resolve %s: got %s, want %s", uri, kind, expected)
		r.observer.ObserveResolve(expected, rerr)
		return nil, rerr
	}

	r.observer.ObserveResolve(expected, nil)
	return &Reference{Kind: kind, URI: uri, Object: obj}, nil
}
