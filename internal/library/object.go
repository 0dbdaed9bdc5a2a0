package library

import "listify/internal/link"

// Object is a reference-counted library object.
//
// Objects handed out by the session are borrowed. A holder that needs one
// to outlive its current owner calls AddRef and later Release. When the
// count drops back to zero the object is freed: it leaves the session
// cache, Valid reports false and LinkString fails with ErrReleased.
type Object interface {
	Kind() link.Kind
	AddRef()
	Release()
	Valid() bool
}

type ref struct {
	refs   int
	freed  bool
	onFree func()
}

func (r *ref) AddRef() {
	if !r.freed {
		r.refs++
	}
}

func (r *ref) Release() {
	if r.freed || r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 {
		r.free()
	}
}

func (r *ref) Valid() bool { return !r.freed }

// Refs returns the current reference count.
func (r *ref) Refs() int { return r.refs }

func (r *ref) setOnFree(fn func()) { r.onFree = fn }

func (r *ref) free() {
	if r.freed {
		return
	}
	r.freed = true
	if r.onFree != nil {
		r.onFree()
	}
}

type entity struct {
	ref
	link link.Link
}

func (e *entity) Kind() link.Kind { return e.link.Kind }

func (e *entity) linkValue() link.Link { return e.link }

// Track is a single track.
type Track struct{ entity }

// Album is an album.
type Album struct{ entity }

// Artist is an artist.
type Artist struct{ entity }

// Search is a saved search.
type Search struct{ entity }

// Query returns the search text.
func (s *Search) Query() string { return s.link.ID }

// linked is implemented by every object the session can serialize.
type linked interface {
	Object
	linkValue() link.Link
	setOnFree(fn func())
	free()
}

// URI returns the canonical identifier of the object.
func (e *entity) URI() string { return e.link.String() }
