package library

// ContainerCallbacks receives container events. Nil fields are skipped.
// Events are queued by mutations and delivered by Session.ProcessEvents.
type ContainerCallbacks struct {
	PlaylistAdded   func(c *Container, pl *Playlist, position int)
	PlaylistRemoved func(c *Container, pl *Playlist, position int)
	ContainerLoaded func(c *Container)
}

// PlaylistCallbacks receives events for one playlist.
type PlaylistCallbacks struct {
	TracksAdded     func(pl *Playlist, tracks []*Track, position int)
	TracksRemoved   func(pl *Playlist, positions []int)
	PlaylistRenamed func(pl *Playlist)
}

// removeCallbacks returns list without cb, keeping order.
func removeCallbacks[T any](list []*T, cb *T) []*T {
	for i, c := range list {
		if c == cb {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
