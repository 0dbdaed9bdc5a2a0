package playlist

import (
	"listify/internal/link"
	"listify/internal/logging"
)

// Collection is an ordered, externally owned sequence of live objects,
// such as a user's playlist container.
//
// Positions are only meaningful until the next mutation. Generation must
// change whenever the membership changes.
type Collection interface {
	Len() int
	At(i int) Object
	RemoveAt(i int) error
	Generation() uint64
}

// Match is the position of an identifier inside a collection, valid only
// for the generation it was found in.
type Match struct {
	URI        string
	Index      int
	Generation uint64
}

// Pinned is a handle whose lifetime was extended before it was removed
// from its collection. It can only be obtained from the reconciler.
type Pinned struct {
	obj      Object
	uri      string
	observer Observer
	released bool
}

// Object returns the pinned library object.
func (p *Pinned) Object() Object { return p.obj }

// URI returns the identifier the handle was found under.
func (p *Pinned) URI() string { return p.uri }

// Unpin drops the extra reference. Calling it more than once is a no-op.
func (p *Pinned) Unpin() {
	if p.released {
		return
	}
	p.released = true
	p.obj.Release()
	p.observer.ObservePinned(-1)
}

// Reconciler finds identifiers inside a collection and removes them while
// keeping the removed object alive for the caller.
//
// Lookup and removal must run without any membership change in between.
// A change is detected through the collection generation and reported as
// StaleIndex rather than removing the wrong entry.
type Reconciler struct {
	resolver *Resolver
	lib      Library
	observer Observer
}

// NewReconciler creates a reconciler over lib. A nil observer is allowed.
func NewReconciler(lib Library, observer Observer) *Reconciler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Reconciler{
		resolver: NewResolver(lib, observer),
		lib:      lib,
		observer: observer,
	}
}

// Resolver returns the resolver used by Hide.
func (r *Reconciler) Resolver() *Resolver {
	return r.resolver
}

// FindIndex returns the first member of c whose canonical identifier is
// exactly uri.
//
// Members are compared by their full serialized identifier rather than by
// object identity, so a member sharing only a prefix with uri never
// matches. Members that cannot be serialized are skipped.
func (r *Reconciler) FindIndex(c Collection, uri string) (Match, error) {
	gen := c.Generation()
	n := c.Len()

	for i := 0; i < n; i++ {
		s, err := r.lib.LinkString(c.At(i))
		if err != nil {
			logging.Debug("container member %d has no link: %v", i, err)
			continue
		}
		if s == uri {
			r.observer.ObserveLookup(i+1, nil)
			return Match{URI: uri, Index: i, Generation: gen}, nil
		}
	}

	err := &Error{Kind: NotFound, URI: uri, Index: -1}
	r.observer.ObserveLookup(n, err)
	return Match{}, err
}

// PinAndRemove pins the member at m and removes it from c.
//
// The pin happens first, so the object stays valid even when the
// collection held its last reference. If removal fails the pin is kept;
// the returned *Error carries the pinned handle so the caller can unpin it.
func (r *Reconciler) PinAndRemove(c Collection, m Match) (*Pinned, error) {
	if m.Generation != c.Generation() || m.Index < 0 || m.Index >= c.Len() {
		err := &Error{Kind: StaleIndex, URI: m.URI, Index: m.Index}
		r.observer.ObserveRemove(err)
		return nil, err
	}

	obj := c.At(m.Index)
	obj.AddRef()
	p := &Pinned{obj: obj, uri: m.URI, observer: r.observer}
	r.observer.ObservePinned(1)

	if err := c.RemoveAt(m.Index); err != nil {
		rerr := &Error{Kind: RemovalFailed, URI: m.URI, Index: m.Index, Pinned: p, Err: err}
		logging.Warn("removing %s at %d failed, handle stays pinned: %v", m.URI, m.Index, err)
		r.observer.ObserveRemove(rerr)
		return nil, rerr
	}

	r.observer.ObserveRemove(nil)
	return p, nil
}

// Hide resolves uri as a playlist and removes it from c, returning the
// pinned playlist.
func (r *Reconciler) Hide(c Collection, uri string) (*Pinned, error) {
	if _, err := r.resolver.Resolve(uri, link.KindPlaylist); err != nil {
		return nil, err
	}

	m, err := r.FindIndex(c, uri)
	if err != nil {
		return nil, err
	}

	return r.PinAndRemove(c, m)
}
