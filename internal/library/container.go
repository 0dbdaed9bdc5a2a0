package library

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"listify/internal/link"
	"listify/internal/logging"
)

// MaxNameLength is the longest accepted playlist name, in characters.
const MaxNameLength = 255

// Container is the ordered list of playlists owned by the session user.
// It holds one reference on every member.
//
// Every membership change is written to the store first and bumps the
// generation.
type Container struct {
	session    *Session
	playlists  []*Playlist
	generation uint64
	callbacks  []*ContainerCallbacks
}

// Owner returns the user owning the container.
func (c *Container) Owner() string { return c.session.user }

// NumPlaylists returns the number of playlists in the container.
func (c *Container) NumPlaylists() int { return len(c.playlists) }

// Generation changes whenever the membership changes.
func (c *Container) Generation() uint64 { return c.generation }

// Playlist returns the borrowed playlist at position i.
func (c *Container) Playlist(i int) (*Playlist, error) {
	if i < 0 || i >= len(c.playlists) {
		return nil, fmt.Errorf("playlist %d of %d: %w", i, len(c.playlists), ErrIndexOutOfRange)
	}
	return c.playlists[i], nil
}

// Index returns the position of pl, or -1.
func (c *Container) Index(pl *Playlist) int {
	for i, p := range c.playlists {
		if p == pl {
			return i
		}
	}
	return -1
}

// AddCallbacks registers cb for container events.
func (c *Container) AddCallbacks(cb *ContainerCallbacks) {
	c.callbacks = append(c.callbacks, cb)
}

// RemoveCallbacks unregisters cb.
func (c *Container) RemoveCallbacks(cb *ContainerCallbacks) {
	c.callbacks = removeCallbacks(c.callbacks, cb)
}

// AddNewPlaylist creates a playlist named name, owned by the container
// owner, and appends it.
func (c *Container) AddNewPlaylist(name string) (*Playlist, error) {
	if err := c.session.check(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	pl, err := c.session.playlist(link.UserPlaylist(c.Owner()))
	if err != nil {
		return nil, err
	}
	pl.name = name

	if err := c.AddPlaylist(pl); err != nil {
		return nil, err
	}
	return pl, nil
}

// AddPlaylist appends pl to the container, saving pl first if the store
// does not know it yet.
func (c *Container) AddPlaylist(pl *Playlist) error {
	if err := c.session.check(); err != nil {
		return err
	}
	if !pl.Valid() {
		return ErrReleased
	}
	if c.Index(pl) >= 0 {
		return fmt.Errorf("%s: %w", pl.URI(), ErrAlreadyInContainer)
	}

	ctx, cancel := c.session.opContext()
	defer cancel()

	if err := pl.ensureStored(ctx); err != nil {
		return err
	}

	pos := len(c.playlists)
	if err := c.session.store.InsertContainerEntry(ctx, c.Owner(), pos, pl.URI()); err != nil {
		return fmt.Errorf("add playlist %s: %w", pl.URI(), err)
	}

	pl.AddRef()
	c.playlists = append(c.playlists, pl)
	c.generation++
	logging.Debug("container of %s: added %s at %d", c.Owner(), pl.URI(), pos)

	c.session.queue(func() {
		for _, cb := range c.snapshotCallbacks() {
			if cb.PlaylistAdded != nil {
				cb.PlaylistAdded(c, pl, pos)
			}
		}
	})
	return nil
}

// RemovePlaylist removes the playlist at position i and drops the
// container's reference on it. If the store refuses, the container is
// left unchanged and the store error is returned.
func (c *Container) RemovePlaylist(i int) error {
	if err := c.session.check(); err != nil {
		return err
	}
	if i < 0 || i >= len(c.playlists) {
		return fmt.Errorf("playlist %d of %d: %w", i, len(c.playlists), ErrIndexOutOfRange)
	}

	ctx, cancel := c.session.opContext()
	defer cancel()

	pl := c.playlists[i]
	if err := c.session.store.DeleteContainerEntry(ctx, c.Owner(), i); err != nil {
		return fmt.Errorf("remove playlist %d: %w", i, err)
	}

	c.playlists = append(c.playlists[:i:i], c.playlists[i+1:]...)
	c.generation++
	logging.Debug("container of %s: removed %s at %d", c.Owner(), pl.URI(), i)

	c.session.queue(func() {
		for _, cb := range c.snapshotCallbacks() {
			if cb.PlaylistRemoved != nil {
				cb.PlaylistRemoved(c, pl, i)
			}
		}
	})

	pl.Release()
	return nil
}

// snapshotCallbacks copies the callback list so callbacks may register or
// unregister while an event is delivered.
func (c *Container) snapshotCallbacks() []*ContainerCallbacks {
	return append([]*ContainerCallbacks(nil), c.callbacks...)
}

func (c *Container) release() {
	for _, pl := range c.playlists {
		pl.Release()
	}
	c.playlists = nil
	c.callbacks = nil
	c.generation++
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
	}
	return nil
}

