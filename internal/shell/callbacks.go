package shell

import (
	"fmt"

	"listify/internal/library"
	"listify/internal/metrics"
)

func (s *Shell) watch(pl *library.Playlist) {
	if s.watched[pl] {
		return
	}
	s.watched[pl] = true
	pl.AddCallbacks(s.playlistCallbacks)
}

func (s *Shell) unwatch(pl *library.Playlist) {
	if !s.watched[pl] {
		return
	}
	delete(s.watched, pl)
	pl.RemoveCallbacks(s.playlistCallbacks)
}

func (s *Shell) containerLoaded(c *library.Container) {
	metrics.ObserveLibraryEvent("container_loaded")
	fmt.Fprintf(s.out, "listify: Looking at %d playlists\n", c.NumPlaylists())

	for i := 0; i < c.NumPlaylists(); i++ {
		pl, err := c.Playlist(i)
		if err != nil {
			continue
		}
		s.watch(pl)
	}
}

func (s *Shell) playlistAdded(c *library.Container, pl *library.Playlist, position int) {
	metrics.ObserveLibraryEvent("playlist_added")
	fmt.Fprintf(s.out, "listify: playlist with name %s was added at %d\n", pl.Name(), position)
	s.watch(pl)
}

func (s *Shell) playlistRemoved(c *library.Container, pl *library.Playlist, position int) {
	metrics.ObserveLibraryEvent("playlist_removed")
	fmt.Fprintf(s.out, "listify: playlist with name %s was removed from %d\n", pl.Name(), position)
	s.unwatch(pl)
}

func (s *Shell) tracksAdded(pl *library.Playlist, tracks []*library.Track, position int) {
	metrics.ObserveLibraryEvent("tracks_added")
	fmt.Fprintf(s.out, "listify: %d tracks were added\n", len(tracks))
}

func (s *Shell) tracksRemoved(pl *library.Playlist, positions []int) {
	metrics.ObserveLibraryEvent("tracks_removed")
	fmt.Fprintf(s.out, "listify: %d tracks were removed\n", len(positions))
}

func (s *Shell) playlistRenamed(pl *library.Playlist) {
	metrics.ObserveLibraryEvent("playlist_renamed")
	fmt.Fprintf(s.out, "listify: some playlist renamed to \"%s\".\n", pl.Name())
}
