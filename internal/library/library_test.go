package library

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listify/internal/database"
	"listify/internal/link"
)

const (
	alice  = "alice"
	trackA = "spotify:track:000000000000000000000A"
	trackB = "spotify:track:000000000000000000000B"
	trackC = "spotify:track:000000000000000000000C"
)

func login(t *testing.T, store Store) *Session {
	t.Helper()
	s, err := Login(context.Background(), store, alice)
	require.NoError(t, err)
	t.Cleanup(s.Logout)
	return s
}

// events records callback deliveries as short strings.
type events struct {
	log []string
}

func (e *events) containerCallbacks() *ContainerCallbacks {
	return &ContainerCallbacks{
		PlaylistAdded: func(_ *Container, pl *Playlist, pos int) {
			e.log = append(e.log, "added "+pl.Name()+" "+itoa(pos))
		},
		PlaylistRemoved: func(_ *Container, pl *Playlist, pos int) {
			e.log = append(e.log, "removed "+pl.Name()+" "+itoa(pos))
		},
		ContainerLoaded: func(c *Container) {
			e.log = append(e.log, "loaded "+itoa(c.NumPlaylists()))
		},
	}
}

func (e *events) playlistCallbacks() *PlaylistCallbacks {
	return &PlaylistCallbacks{
		TracksAdded: func(_ *Playlist, tracks []*Track, pos int) {
			e.log = append(e.log, "tracks added "+itoa(len(tracks))+" "+itoa(pos))
		},
		TracksRemoved: func(_ *Playlist, positions []int) {
			e.log = append(e.log, "tracks removed "+itoa(len(positions)))
		},
		PlaylistRenamed: func(pl *Playlist) {
			e.log = append(e.log, "renamed "+pl.Name())
		},
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func TestLoginValidatesUser(t *testing.T) {
	t.Parallel()

	for _, user := range []string{"", "a:b", "has space"} {
		_, err := Login(context.Background(), NewMemoryStore(), user)
		assert.ErrorIs(t, err, ErrInvalidUser, "user %q", user)
	}
}

func TestLoginFailsWhenContainerCannotLoad(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.FailOn("list_container", errors.New("disk I/O error"))

	_, err := Login(context.Background(), store, alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestContainerLoadedEventWaitsForProcessEvents(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())
	ev := &events{}
	s.Container().AddCallbacks(ev.containerCallbacks())

	assert.Empty(t, ev.log)
	assert.Equal(t, 1, s.ProcessEvents())
	assert.Equal(t, []string{"loaded 0"}, ev.log)
	assert.Zero(t, s.ProcessEvents())
}

func TestAddNewPlaylistPersists(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)
	c := s.Container()
	ev := &events{}
	c.AddCallbacks(ev.containerCallbacks())

	gen := c.Generation()
	pl, err := c.AddNewPlaylist("Mix")
	require.NoError(t, err)

	assert.Equal(t, 1, c.NumPlaylists())
	assert.NotEqual(t, gen, c.Generation())
	assert.Equal(t, "Mix", pl.Name())
	assert.Equal(t, alice, pl.Owner())
	assert.Equal(t, 1, pl.Refs())

	l, err := link.Parse(pl.URI())
	require.NoError(t, err)
	assert.Equal(t, link.KindPlaylist, l.Kind)

	s.ProcessEvents()
	assert.Equal(t, []string{"loaded 1", "added Mix 0"}, ev.log)

	// A second session over the same store sees the playlist.
	s.Logout()
	s2 := login(t, store)
	require.Equal(t, 1, s2.Container().NumPlaylists())
	got, err := s2.Container().Playlist(0)
	require.NoError(t, err)
	assert.Equal(t, "Mix", got.Name())
	assert.Equal(t, pl.URI(), got.URI())
}

func TestAddNewPlaylistRejectsBadNames(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())
	for _, name := range []string{"", "   ", strings.Repeat("x", MaxNameLength+1)} {
		_, err := s.Container().AddNewPlaylist(name)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
	assert.Zero(t, s.Container().NumPlaylists())
}

func TestAddPlaylistRejectsDuplicates(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())
	c := s.Container()
	pl, err := c.AddNewPlaylist("Once")
	require.NoError(t, err)

	err = c.AddPlaylist(pl)
	require.ErrorIs(t, err, ErrAlreadyInContainer)
	assert.Equal(t, 1, c.NumPlaylists())
	assert.Equal(t, 1, pl.Refs())
}

func TestAddPlaylistSavesUnknownPlaylist(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)

	uri := link.UserPlaylist("bob").String()
	_, obj, err := s.ParseLink(uri)
	require.NoError(t, err)
	pl := obj.(*Playlist)
	assert.Empty(t, pl.Name())
	assert.Zero(t, pl.Refs())

	require.NoError(t, s.Container().AddPlaylist(pl))

	rec, err := store.GetPlaylist(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, "bob", rec.Owner)
}

func TestRemovePlaylistReleases(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())
	c := s.Container()
	a, err := c.AddNewPlaylist("a")
	require.NoError(t, err)
	b, err := c.AddNewPlaylist("b")
	require.NoError(t, err)

	ev := &events{}
	c.AddCallbacks(ev.containerCallbacks())
	s.ProcessEvents()
	ev.log = nil

	require.NoError(t, c.RemovePlaylist(0))
	assert.False(t, a.Valid(), "container held the only reference")
	_, err = s.LinkString(a)
	assert.ErrorIs(t, err, ErrReleased)

	got, err := c.Playlist(0)
	require.NoError(t, err)
	assert.Same(t, b, got)

	s.ProcessEvents()
	assert.Equal(t, []string{"removed a 0"}, ev.log)

	// The freed playlist is reloaded fresh on the next parse.
	_, obj, err := s.ParseLink(a.URI())
	require.NoError(t, err)
	assert.NotSame(t, a, obj)
	assert.True(t, obj.Valid())
	assert.Equal(t, "a", obj.(*Playlist).Name())
}

func TestRemovePlaylistStoreFailure(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)
	c := s.Container()
	pl, err := c.AddNewPlaylist("keep")
	require.NoError(t, err)

	store.FailOn("delete_container_entry", errors.New("permission denied"))
	gen := c.Generation()

	err = c.RemovePlaylist(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, 1, c.NumPlaylists())
	assert.Equal(t, gen, c.Generation())
	assert.True(t, pl.Valid())

	assert.ErrorIs(t, c.RemovePlaylist(3), ErrIndexOutOfRange)
}

func TestPlaylistTracks(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)
	pl, err := s.Container().AddNewPlaylist("tracks")
	require.NoError(t, err)

	ev := &events{}
	pl.AddCallbacks(ev.playlistCallbacks())

	a, err := s.Track(trackA)
	require.NoError(t, err)
	b, err := s.Track(trackB)
	require.NoError(t, err)
	c, err := s.Track(trackC)
	require.NoError(t, err)

	require.NoError(t, pl.AddTracks([]*Track{a, c}, 0))
	require.NoError(t, pl.AddTracks([]*Track{b}, 1))
	assert.ErrorIs(t, pl.AddTracks([]*Track{b}, 9), ErrIndexOutOfRange)

	want := []string{trackA, trackB, trackC}
	if diff := cmp.Diff(want, pl.TrackURIs()); diff != "" {
		t.Errorf("tracks mismatch (-want +got):\n%s", diff)
	}
	stored, err := store.GetPlaylistTracks(context.Background(), pl.URI())
	require.NoError(t, err)
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("stored tracks mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, b.Refs())

	require.NoError(t, pl.RemoveTracks([]int{1, 1}))
	assert.False(t, b.Valid(), "removed track had no other holder")
	assert.Equal(t, []string{trackA, trackC}, pl.TrackURIs())

	require.NoError(t, pl.Clear())
	assert.Zero(t, pl.NumTracks())
	require.NoError(t, pl.Clear(), "clearing an empty playlist is a no-op")

	require.NoError(t, pl.Rename("renamed"))
	assert.ErrorIs(t, pl.Rename(""), ErrInvalidName)

	s.ProcessEvents()
	assert.Equal(t, []string{
		"tracks added 2 0",
		"tracks added 1 1",
		"tracks removed 1",
		"tracks removed 2",
		"renamed renamed",
	}, ev.log)

	rec, err := store.GetPlaylist(context.Background(), pl.URI())
	require.NoError(t, err)
	assert.Equal(t, "renamed", rec.Name)
}

func TestPlaylistTrackStoreFailureLeavesMemoryUntouched(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)
	pl, err := s.Container().AddNewPlaylist("p")
	require.NoError(t, err)
	a, err := s.Track(trackA)
	require.NoError(t, err)

	store.FailOn("insert_playlist_tracks", errors.New("disk full"))
	require.Error(t, pl.AddTracks([]*Track{a}, 0))
	assert.Zero(t, pl.NumTracks())
	assert.Zero(t, a.Refs())
}

func TestTracksLoadWithPlaylist(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	uri := link.UserPlaylist(alice).String()
	require.NoError(t, store.CreatePlaylist(ctx, database.PlaylistRecord{URI: uri, Name: "seeded", Owner: alice}))
	require.NoError(t, store.InsertPlaylistTracks(ctx, uri, 0, []string{trackA, "garbage", trackB}))
	require.NoError(t, store.InsertContainerEntry(ctx, alice, 0, uri))
	require.NoError(t, store.InsertContainerEntry(ctx, alice, 1, "spotify:track:000000000000000000000A"))

	s := login(t, store)
	c := s.Container()
	require.Equal(t, 1, c.NumPlaylists(), "non-playlist entries are skipped")

	pl, err := c.Playlist(0)
	require.NoError(t, err)
	assert.Equal(t, []string{trackA, trackB}, pl.TrackURIs())
}

func TestParseLink(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())

	tests := []struct {
		uri      string
		wantKind link.Kind
		wantType string
		wantErr  bool
	}{
		{uri: trackA, wantKind: link.KindTrack, wantType: "*library.Track"},
		{uri: "spotify:album:000000000000000000000A", wantKind: link.KindAlbum, wantType: "*library.Album"},
		{uri: "spotify:artist:000000000000000000000A", wantKind: link.KindArtist, wantType: "*library.Artist"},
		{uri: "spotify:search:daft punk", wantKind: link.KindSearch, wantType: "*library.Search"},
		{uri: "spotify:playlist:000000000000000000000A", wantKind: link.KindPlaylist, wantType: "*library.Playlist"},
		{uri: "spotify:nonsense", wantKind: link.KindInvalid},
		{uri: "not a link", wantErr: true},
	}

	for _, tt := range tests {
		l, obj, err := s.ParseLink(tt.uri)
		if tt.wantErr {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.wantKind, l.Kind, tt.uri)
		if tt.wantType == "" {
			assert.Nil(t, obj, tt.uri)
			continue
		}
		assert.Equal(t, tt.wantType, typeName(obj), tt.uri)

		str, err := s.LinkString(obj)
		require.NoError(t, err)
		assert.Equal(t, tt.uri, str)
	}

	// Borrowed objects come from the cache.
	_, first, _ := s.ParseLink(trackA)
	_, second, _ := s.ParseLink(trackA)
	assert.Same(t, first, second)
}

func TestParseLinkStoreFailure(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s := login(t, store)
	store.FailOn("get_playlist", errors.New("database is locked"))

	_, _, err := s.ParseLink("spotify:playlist:000000000000000000000A")
	assert.ErrorContains(t, err, "database is locked")
}

func TestLogout(t *testing.T) {
	t.Parallel()

	s, err := Login(context.Background(), NewMemoryStore(), alice)
	require.NoError(t, err)
	pl, err := s.Container().AddNewPlaylist("gone")
	require.NoError(t, err)
	pl.AddRef()

	s.Logout()
	s.Logout()

	assert.Nil(t, s.Container())
	assert.False(t, pl.Valid())
	assert.Zero(t, s.ProcessEvents(), "pending events are dropped")

	_, _, err = s.ParseLink(trackA)
	assert.ErrorIs(t, err, ErrLoggedOut)
	_, err = s.LinkString(pl)
	assert.ErrorIs(t, err, ErrLoggedOut)
	assert.ErrorIs(t, pl.Rename("x"), ErrLoggedOut)

	pl.Release()
}

func TestCallbacksCanBeRemoved(t *testing.T) {
	t.Parallel()

	s := login(t, NewMemoryStore())
	c := s.Container()
	ev := &events{}
	cb := ev.containerCallbacks()
	c.AddCallbacks(cb)
	c.RemoveCallbacks(cb)

	_, err := c.AddNewPlaylist("silent")
	require.NoError(t, err)
	assert.Equal(t, 2, s.ProcessEvents())
	assert.Empty(t, ev.log)
}

func typeName(v any) string {
	switch v.(type) {
	case *Track:
		return "*library.Track"
	case *Album:
		return "*library.Album"
	case *Artist:
		return "*library.Artist"
	case *Search:
		return "*library.Search"
	case *Playlist:
		return "*library.Playlist"
	default:
		return ""
	}
}
