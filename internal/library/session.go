package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"listify/internal/database"
	"listify/internal/link"
	"listify/internal/logging"
)

const defaultTimeout = 5 * time.Second

// Session is a logged-in user's view of the library. It owns the object
// cache, the user's playlist container and the pending event queue.
//
// A Session is not safe for concurrent use. Events are only delivered
// from ProcessEvents, on the caller's goroutine.
type Session struct {
	ctx     context.Context
	store   Store
	user    string
	timeout time.Duration

	objects   map[string]linked
	container *Container
	pending   []func()
	closed    bool
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds every store operation of the session.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Login opens a session for user and loads the user's container from
// store. A ContainerLoaded event is queued for the first ProcessEvents.
func Login(ctx context.Context, store Store, user string, opts ...Option) (*Session, error) {
	if user == "" || strings.ContainsAny(user, ": \t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}

	s := &Session{
		ctx:     ctx,
		store:   store,
		user:    user,
		timeout: defaultTimeout,
		objects: make(map[string]linked),
	}
	for _, opt := range opts {
		opt(s)
	}

	c, err := s.loadContainer()
	if err != nil {
		return nil, err
	}
	s.container = c

	logging.Debug("session for %s opened with %d playlists", user, c.NumPlaylists())
	return s, nil
}

// User returns the logged-in user.
func (s *Session) User() string { return s.user }

// Container returns the user's playlist container, or nil after Logout.
func (s *Session) Container() *Container {
	if s.closed {
		return nil
	}
	return s.container
}

// Logout releases the container and every cached object and drops pending
// events. The session cannot be used afterwards.
func (s *Session) Logout() {
	if s.closed {
		return
	}
	s.closed = true
	s.pending = nil

	s.container.release()
	for _, obj := range s.objects {
		obj.free()
	}
	s.objects = nil

	logging.Debug("session for %s closed", s.user)
}

// ParseLink parses uri and returns the link together with the borrowed
// object it names. Playlists are loaded from the store on first use. The
// object is nil for links of KindInvalid.
func (s *Session) ParseLink(uri string) (link.Link, Object, error) {
	if s.closed {
		return link.Link{}, nil, ErrLoggedOut
	}

	l, err := link.Parse(uri)
	if err != nil {
		return link.Link{}, nil, err
	}
	if l.Kind == link.KindInvalid {
		return l, nil, nil
	}

	if l.Kind == link.KindPlaylist {
		pl, err := s.playlist(l)
		if err != nil {
			return link.Link{}, nil, err
		}
		return l, pl, nil
	}

	return l, s.entity(l), nil
}

// LinkString returns the canonical identifier of obj.
func (s *Session) LinkString(obj Object) (string, error) {
	if s.closed {
		return "", ErrLoggedOut
	}
	lo, ok := obj.(linked)
	if !ok || lo == nil {
		return "", fmt.Errorf("object %T has no link", obj)
	}
	if !lo.Valid() {
		return "", ErrReleased
	}
	return lo.linkValue().String(), nil
}

// Track returns the borrowed track for uri.
func (s *Session) Track(uri string) (*Track, error) {
	l, obj, err := s.ParseLink(uri)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*Track)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a track", uri, l.Kind)
	}
	return t, nil
}

// ProcessEvents delivers queued events to the registered callbacks and
// returns how many were delivered. Events queued by callbacks are
// delivered in the same call.
func (s *Session) ProcessEvents() int {
	n := 0
	for len(s.pending) > 0 && !s.closed {
		batch := s.pending
		s.pending = nil
		for _, fn := range batch {
			fn()
			n++
			if s.closed {
				break
			}
		}
	}
	return n
}

func (s *Session) queue(fn func()) {
	s.pending = append(s.pending, fn)
}

func (s *Session) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.timeout)
}

func (s *Session) entity(l link.Link) linked {
	key := l.String()
	if obj, ok := s.objects[key]; ok {
		return obj
	}

	e := entity{link: l}
	var obj linked
	switch l.Kind {
	case link.KindTrack:
		obj = &Track{entity: e}
	case link.KindAlbum:
		obj = &Album{entity: e}
	case link.KindArtist:
		obj = &Artist{entity: e}
	default:
		obj = &Search{entity: e}
	}
	obj.setOnFree(func() { s.evict(key, obj) })
	s.objects[key] = obj
	return obj
}

// playlist returns the cached playlist for l, loading it from the store.
// A playlist the store does not know is returned unsaved and is written
// on its first mutation.
func (s *Session) playlist(l link.Link) (*Playlist, error) {
	key := l.String()
	if obj, ok := s.objects[key]; ok {
		return obj.(*Playlist), nil
	}

	ctx, cancel := s.opContext()
	defer cancel()

	pl := &Playlist{session: s, entity: entity{link: l}}

	rec, err := s.store.GetPlaylist(ctx, key)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load playlist %s: %w", key, err)
	default:
		pl.name = rec.Name
		pl.stored = true

		uris, err := s.store.GetPlaylistTracks(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load tracks of %s: %w", key, err)
		}
		for _, uri := range uris {
			t, err := s.Track(uri)
			if err != nil {
				logging.Warn("skipping stored track %q of %s: %v", uri, key, err)
				continue
			}
			t.AddRef()
			pl.tracks = append(pl.tracks, t)
		}
	}

	pl.onFree = func() {
		for _, t := range pl.tracks {
			t.Release()
		}
		pl.tracks = nil
		pl.callbacks = nil
		s.evict(key, pl)
	}
	s.objects[key] = pl
	return pl, nil
}

func (s *Session) evict(key string, obj linked) {
	if s.objects[key] == obj {
		delete(s.objects, key)
	}
}

func (s *Session) loadContainer() (*Container, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	uris, err := s.store.ListContainer(ctx, s.user)
	if err != nil {
		return nil, fmt.Errorf("load container of %s: %w", s.user, err)
	}

	c := &Container{session: s}
	for _, uri := range uris {
		l, err := link.Parse(uri)
		if err != nil || l.Kind != link.KindPlaylist {
			logging.Warn("skipping container entry %q: not a playlist", uri)
			continue
		}
		pl, err := s.playlist(l)
		if err != nil {
			return nil, err
		}
		pl.AddRef()
		c.playlists = append(c.playlists, pl)
	}

	s.queue(func() {
		for _, cb := range c.snapshotCallbacks() {
			if cb.ContainerLoaded != nil {
				cb.ContainerLoaded(c)
			}
		}
	})
	return c, nil
}

func (s *Session) check() error {
	if s.closed {
		return ErrLoggedOut
	}
	return nil
}
