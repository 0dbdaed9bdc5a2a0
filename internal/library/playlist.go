package library

import (
	"context"
	"fmt"
	"sort"

	"listify/internal/database"
)

// Playlist is an ordered list of tracks. It holds one reference on every
// track it contains.
type Playlist struct {
	entity
	session   *Session
	name      string
	tracks    []*Track
	stored    bool
	callbacks []*PlaylistCallbacks
}

// Name returns the playlist name. Playlists the store has never seen have
// an empty name.
func (p *Playlist) Name() string { return p.name }

// Owner returns the user in the playlist identifier, if any.
func (p *Playlist) Owner() string { return p.link.User }

// NumTracks returns the number of tracks.
func (p *Playlist) NumTracks() int { return len(p.tracks) }

// Track returns the borrowed track at position i.
func (p *Playlist) Track(i int) (*Track, error) {
	if i < 0 || i >= len(p.tracks) {
		return nil, fmt.Errorf("track %d of %d: %w", i, len(p.tracks), ErrIndexOutOfRange)
	}
	return p.tracks[i], nil
}

// TrackURIs returns the identifiers of all tracks in order.
func (p *Playlist) TrackURIs() []string {
	uris := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		uris[i] = t.URI()
	}
	return uris
}

// AddCallbacks registers cb for events on this playlist.
func (p *Playlist) AddCallbacks(cb *PlaylistCallbacks) {
	p.callbacks = append(p.callbacks, cb)
}

// RemoveCallbacks unregisters cb.
func (p *Playlist) RemoveCallbacks(cb *PlaylistCallbacks) {
	p.callbacks = removeCallbacks(p.callbacks, cb)
}

// AddTracks inserts tracks at position pos. pos may equal NumTracks to
// append.
func (p *Playlist) AddTracks(tracks []*Track, pos int) error {
	if err := p.usable(); err != nil {
		return err
	}
	if pos < 0 || pos > len(p.tracks) {
		return fmt.Errorf("insert at %d of %d: %w", pos, len(p.tracks), ErrIndexOutOfRange)
	}
	if len(tracks) == 0 {
		return nil
	}

	uris := make([]string, len(tracks))
	for i, t := range tracks {
		if !t.Valid() {
			return fmt.Errorf("track %d: %w", i, ErrReleased)
		}
		uris[i] = t.URI()
	}

	ctx, cancel := p.session.opContext()
	defer cancel()

	if err := p.ensureStored(ctx); err != nil {
		return err
	}
	if err := p.session.store.InsertPlaylistTracks(ctx, p.URI(), pos, uris); err != nil {
		return fmt.Errorf("add tracks to %s: %w", p.URI(), err)
	}

	for _, t := range tracks {
		t.AddRef()
	}
	added := append([]*Track(nil), tracks...)
	next := make([]*Track, 0, len(p.tracks)+len(added))
	next = append(next, p.tracks[:pos]...)
	next = append(next, added...)
	p.tracks = append(next, p.tracks[pos:]...)

	p.session.queue(func() {
		for _, cb := range p.snapshotCallbacks() {
			if cb.TracksAdded != nil {
				cb.TracksAdded(p, added, pos)
			}
		}
	})
	return nil
}

// RemoveTracks removes the tracks at the given positions. Duplicate
// positions are removed once.
func (p *Playlist) RemoveTracks(positions []int) error {
	if err := p.usable(); err != nil {
		return err
	}

	uniq := make([]int, 0, len(positions))
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(p.tracks) {
			return fmt.Errorf("track %d of %d: %w", pos, len(p.tracks), ErrIndexOutOfRange)
		}
		if !seen[pos] {
			seen[pos] = true
			uniq = append(uniq, pos)
		}
	}
	if len(uniq) == 0 {
		return nil
	}
	sort.Ints(uniq)

	ctx, cancel := p.session.opContext()
	defer cancel()

	if err := p.session.store.DeletePlaylistTracks(ctx, p.URI(), uniq); err != nil {
		return fmt.Errorf("remove tracks from %s: %w", p.URI(), err)
	}

	kept := make([]*Track, 0, len(p.tracks)-len(uniq))
	var dropped []*Track
	for i, t := range p.tracks {
		if seen[i] {
			dropped = append(dropped, t)
			continue
		}
		kept = append(kept, t)
	}
	p.tracks = kept
	for _, t := range dropped {
		t.Release()
	}

	p.session.queue(func() {
		for _, cb := range p.snapshotCallbacks() {
			if cb.TracksRemoved != nil {
				cb.TracksRemoved(p, uniq)
			}
		}
	})
	return nil
}

// Clear removes every track.
func (p *Playlist) Clear() error {
	all := make([]int, len(p.tracks))
	for i := range all {
		all[i] = i
	}
	return p.RemoveTracks(all)
}

// Rename changes the playlist name.
func (p *Playlist) Rename(name string) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	ctx, cancel := p.session.opContext()
	defer cancel()

	if !p.stored {
		p.name = name
		if err := p.ensureStored(ctx); err != nil {
			p.name = ""
			return err
		}
	} else if err := p.session.store.RenamePlaylist(ctx, p.URI(), name); err != nil {
		return fmt.Errorf("rename %s: %w", p.URI(), err)
	}
	p.name = name

	p.session.queue(func() {
		for _, cb := range p.snapshotCallbacks() {
			if cb.PlaylistRenamed != nil {
				cb.PlaylistRenamed(p)
			}
		}
	})
	return nil
}

func (p *Playlist) usable() error {
	if err := p.session.check(); err != nil {
		return err
	}
	if !p.Valid() {
		return ErrReleased
	}
	return nil
}

// ensureStored writes the playlist record if the store does not have it.
func (p *Playlist) ensureStored(ctx context.Context) error {
	if p.stored {
		return nil
	}

	owner := p.Owner()
	if owner == "" {
		owner = p.session.user
	}

	rec := database.PlaylistRecord{URI: p.URI(), Name: p.name, Owner: owner}
	if err := p.session.store.CreatePlaylist(ctx, rec); err != nil {
		return fmt.Errorf("save playlist %s: %w", p.URI(), err)
	}
	p.stored = true
	return nil
}

func (p *Playlist) snapshotCallbacks() []*PlaylistCallbacks {
	return append([]*PlaylistCallbacks(nil), p.callbacks...)
}
