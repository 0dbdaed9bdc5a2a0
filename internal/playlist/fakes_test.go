package playlist

import (
	"errors"
	"fmt"

	"listify/internal/link"
)

const (
	idA = "0000000000000000000000"
	idB = "1111111111111111111111"
	idC = "2222222222222222222222"

	uriA     = "spotify:user:alice:playlist:" + idA
	uriB     = "spotify:user:alice:playlist:" + idB
	uriC     = "spotify:user:alice:playlist:" + idC
	uriTrack = "spotify:track:" + idA
)

var errReleased = errors.New("object released")

// fakeObject is a reference-counted object that is freed when its count
// drops back to zero.
type fakeObject struct {
	uri   string
	refs  int
	freed bool
}

func (o *fakeObject) AddRef() { o.refs++ }

func (o *fakeObject) Release() {
	o.refs--
	if o.refs == 0 {
		o.freed = true
	}
}

// fakeLibrary hands out one object per identifier string.
type fakeLibrary struct {
	objects map[string]*fakeObject
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{objects: make(map[string]*fakeObject)}
}

func (l *fakeLibrary) object(uri string) *fakeObject {
	obj, ok := l.objects[uri]
	if !ok {
		obj = &fakeObject{uri: uri}
		l.objects[uri] = obj
	}
	return obj
}

func (l *fakeLibrary) ParseLink(uri string) (link.Kind, Object, error) {
	parsed, err := link.Parse(uri)
	if err != nil {
		return link.KindInvalid, nil, err
	}
	return parsed.Kind, l.object(uri), nil
}

func (l *fakeLibrary) LinkString(obj Object) (string, error) {
	o, ok := obj.(*fakeObject)
	if !ok {
		return "", fmt.Errorf("unexpected object %T", obj)
	}
	if o.freed {
		return "", errReleased
	}
	return o.uri, nil
}

// fakeCollection holds one reference on each member.
type fakeCollection struct {
	members   []*fakeObject
	gen       uint64
	removeErr error
	removals  int
}

func newFakeCollection(lib *fakeLibrary, uris ...string) *fakeCollection {
	c := &fakeCollection{}
	for _, uri := range uris {
		obj := lib.object(uri)
		obj.AddRef()
		c.members = append(c.members, obj)
	}
	return c
}

func (c *fakeCollection) Len() int           { return len(c.members) }
func (c *fakeCollection) At(i int) Object    { return c.members[i] }
func (c *fakeCollection) Generation() uint64 { return c.gen }

func (c *fakeCollection) RemoveAt(i int) error {
	c.removals++
	if c.removeErr != nil {
		return c.removeErr
	}
	obj := c.members[i]
	c.members = append(c.members[:i], c.members[i+1:]...)
	c.gen++
	obj.Release()
	return nil
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	resolves []error
	lookups  []error
	scanned  []int
	removes  []error
	pinned   int
}

func (o *recordingObserver) ObserveResolve(_ link.Kind, err error) {
	o.resolves = append(o.resolves, err)
}

func (o *recordingObserver) ObserveLookup(scanned int, err error) {
	o.scanned = append(o.scanned, scanned)
	o.lookups = append(o.lookups, err)
}

func (o *recordingObserver) ObserveRemove(err error) {
	o.removes = append(o.removes, err)
}

func (o *recordingObserver) ObservePinned(delta int) {
	o.pinned += delta
}
