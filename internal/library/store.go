package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"listify/internal/database"
)

// Store persists playlists and containers. *database.Database implements
// it; MemoryStore is an in-process implementation.
type Store interface {
	CreatePlaylist(ctx context.Context, rec database.PlaylistRecord) error
	GetPlaylist(ctx context.Context, uri string) (*database.PlaylistRecord, error)
	RenamePlaylist(ctx context.Context, uri, name string) error
	GetPlaylistTracks(ctx context.Context, uri string) ([]string, error)
	InsertPlaylistTracks(ctx context.Context, uri string, pos int, trackURIs []string) error
	DeletePlaylistTracks(ctx context.Context, uri string, positions []int) error
	ListContainer(ctx context.Context, owner string) ([]string, error)
	InsertContainerEntry(ctx context.Context, owner string, pos int, uri string) error
	DeleteContainerEntry(ctx context.Context, owner string, pos int) error
	GetStats(ctx context.Context) (database.Stats, error)
}

var _ Store = (*database.Database)(nil)

// MemoryStore keeps everything in memory. It is safe for concurrent use.
//
// Failures can be injected per operation with FailOn, using the same
// operation names the database records in its metrics.
type MemoryStore struct {
	mu         sync.Mutex
	playlists  map[string]database.PlaylistRecord
	tracks     map[string][]string
	containers map[string][]string
	failures   map[string]error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		playlists:  make(map[string]database.PlaylistRecord),
		tracks:     make(map[string][]string),
		containers: make(map[string][]string),
		failures:   make(map[string]error),
	}
}

// FailOn makes every call of operation fail with err until cleared with a
// nil err.
func (m *MemoryStore) FailOn(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, operation)
		return
	}
	m.failures[operation] = err
}

func (m *MemoryStore) fail(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failures[operation]
}

func (m *MemoryStore) CreatePlaylist(ctx context.Context, rec database.PlaylistRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "create_playlist"); err != nil {
		return err
	}
	if _, ok := m.playlists[rec.URI]; ok {
		return fmt.Errorf("create playlist %s: already exists", rec.URI)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.playlists[rec.URI] = rec
	return nil
}

func (m *MemoryStore) GetPlaylist(ctx context.Context, uri string) (*database.PlaylistRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "get_playlist"); err != nil {
		return nil, err
	}
	rec, ok := m.playlists[uri]
	if !ok {
		return nil, fmt.Errorf("playlist %s: %w", uri, database.ErrNotFound)
	}
	return &rec, nil
}

func (m *MemoryStore) RenamePlaylist(ctx context.Context, uri, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "rename_playlist"); err != nil {
		return err
	}
	rec, ok := m.playlists[uri]
	if !ok {
		return fmt.Errorf("playlist %s: %w", uri, database.ErrNotFound)
	}
	rec.Name = name
	m.playlists[uri] = rec
	return nil
}

func (m *MemoryStore) GetPlaylistTracks(ctx context.Context, uri string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "get_playlist_tracks"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.tracks[uri]...), nil
}

func (m *MemoryStore) InsertPlaylistTracks(ctx context.Context, uri string, pos int, trackURIs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "insert_playlist_tracks"); err != nil {
		return err
	}
	cur := m.tracks[uri]
	if pos < 0 || pos > len(cur) {
		return fmt.Errorf("insert at %d into %d tracks: %w", pos, len(cur), database.ErrPosition)
	}
	m.tracks[uri] = insertAt(cur, pos, trackURIs...)
	return nil
}

func (m *MemoryStore) DeletePlaylistTracks(ctx context.Context, uri string, positions []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "delete_playlist_tracks"); err != nil {
		return err
	}
	cur := m.tracks[uri]
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(cur) {
			return fmt.Errorf("delete track %d of %d: %w", p, len(cur), database.ErrPosition)
		}
		drop[p] = true
	}
	kept := make([]string, 0, len(cur))
	for i, t := range cur {
		if !drop[i] {
			kept = append(kept, t)
		}
	}
	m.tracks[uri] = kept
	return nil
}

func (m *MemoryStore) ListContainer(ctx context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "list_container"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.containers[owner]...), nil
}

func (m *MemoryStore) InsertContainerEntry(ctx context.Context, owner string, pos int, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "insert_container_entry"); err != nil {
		return err
	}
	cur := m.containers[owner]
	if pos < 0 || pos > len(cur) {
		return fmt.Errorf("insert at %d into container of %d: %w", pos, len(cur), database.ErrPosition)
	}
	m.containers[owner] = insertAt(cur, pos, uri)
	return nil
}

func (m *MemoryStore) DeleteContainerEntry(ctx context.Context, owner string, pos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "delete_container_entry"); err != nil {
		return err
	}
	cur := m.containers[owner]
	if pos < 0 || pos >= len(cur) {
		return fmt.Errorf("container entry %d: %w", pos, database.ErrNotFound)
	}
	m.containers[owner] = append(cur[:pos:pos], cur[pos+1:]...)
	return nil
}

func (m *MemoryStore) GetStats(ctx context.Context) (database.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx, "get_stats"); err != nil {
		return database.Stats{}, err
	}
	s := database.Stats{Playlists: len(m.playlists)}
	for _, c := range m.containers {
		s.ContainerEntries += len(c)
	}
	for _, t := range m.tracks {
		s.Tracks += len(t)
	}
	return s, nil
}

func insertAt(s []string, pos int, items ...string) []string {
	out := make([]string, 0, len(s)+len(items))
	out = append(out, s[:pos]...)
	out = append(out, items...)
	return append(out, s[pos:]...)
}
