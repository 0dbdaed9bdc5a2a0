package playlist

import "listify/internal/link"

// Observer receives the outcome of resolver and reconciler operations.
// A nil error means success.
type Observer interface {
	ObserveResolve(expected link.Kind, err error)
	ObserveLookup(scanned int, err error)
	ObserveRemove(err error)
	// ObservePinned is called with +1 when a handle is pinned and -1 when
	// it is unpinned.
	ObservePinned(delta int)
}

type nopObserver struct{}

func (nopObserver) ObserveResolve(link.Kind, error) {}
func (nopObserver) ObserveLookup(int, error)        {}
func (nopObserver) ObserveRemove(error)             {}
func (nopObserver) ObservePinned(int)               {}
