package shell

import (
	"fmt"

	"listify/internal/library"
	"listify/internal/link"
	"listify/internal/playlist"
)

// sessionLibrary exposes a session to the resolver and reconciler.
type sessionLibrary struct {
	session *library.Session
}

func (l sessionLibrary) ParseLink(uri string) (link.Kind, playlist.Object, error) {
	lk, obj, err := l.session.ParseLink(uri)
	if err != nil {
		return link.KindInvalid, nil, err
	}
	if obj == nil {
		return lk.Kind, nil, nil
	}
	return lk.Kind, obj, nil
}

func (l sessionLibrary) LinkString(obj playlist.Object) (string, error) {
	o, ok := obj.(library.Object)
	if !ok {
		return "", fmt.Errorf("%T is not a library object", obj)
	}
	return l.session.LinkString(o)
}

// containerView exposes a container as a reconciler collection.
type containerView struct {
	c *library.Container
}

func (v containerView) Len() int { return v.c.NumPlaylists() }

func (v containerView) At(i int) playlist.Object {
	pl, err := v.c.Playlist(i)
	if err != nil {
		return nil
	}
	return pl
}

func (v containerView) RemoveAt(i int) error { return v.c.RemovePlaylist(i) }

func (v containerView) Generation() uint64 { return v.c.Generation() }

// canonical rewrites a parseable identifier, such as a web link, into the
// form the library serializes members to. Anything else is returned as is.
func canonical(uri string) string {
	l, err := link.Parse(uri)
	if err != nil || l.Kind == link.KindInvalid {
		return uri
	}
	return l.String()
}
