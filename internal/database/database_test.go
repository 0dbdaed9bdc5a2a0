package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const (
	testOwner = "alice"
	plA       = "spotify:user:alice:playlist:0000000000000000000001"
	plB       = "spotify:user:alice:playlist:0000000000000000000002"
	plC       = "spotify:user:alice:playlist:0000000000000000000003"
)

func setupTestDB(t testing.TB) (db *Database, dbPath string) {
	t.Helper()

	dbPath = filepath.Join(t.TempDir(), "test.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, dbPath
}

func TestNewInitializesSchema(t *testing.T) {
	t.Parallel()

	db, dbPath := setupTestDB(t)

	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}

	version, err := db.GetMetadata(context.Background(), "schema_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("schema_version = %q, want %q", version, schemaVersion)
	}
}

func TestNewReopensExistingDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	db, err := New(ctx, dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := db.CreatePlaylist(ctx, PlaylistRecord{URI: plA, Name: "Road trip", Owner: testOwner}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err = New(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	rec, err := db.GetPlaylist(ctx, plA)
	if err != nil {
		t.Fatalf("GetPlaylist after reopen failed: %v", err)
	}
	if rec.Name != "Road trip" {
		t.Errorf("Name = %q, want %q", rec.Name, "Road trip")
	}
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "missing", "sub", "test.db")
	if _, err := New(context.Background(), dbPath); err == nil {
		t.Error("expected error for database in a missing directory")
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	db, _ := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetMetadata(ctx, "nonexistent"); err == nil {
		t.Error("Expected error for non-existent key")
	}

	if err := db.SetMetadata(ctx, "key1", "value1"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	if err := db.SetMetadata(ctx, "key1", "value2"); err != nil {
		t.Fatalf("SetMetadata update failed: %v", err)
	}

	value, err := db.GetMetadata(ctx, "key1")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if value != "value2" {
		t.Errorf("Expected updated value 'value2', got %s", value)
	}
}

func TestLastLogin(t *testing.T) {
	t.Parallel()

	db, _ := setupTestDB(t)
	ctx := context.Background()

	got, err := db.GetLastLogin(ctx, testOwner)
	if err != nil {
		t.Fatalf("GetLastLogin failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("GetLastLogin for new user = %v, want zero", got)
	}

	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if err := db.SetLastLogin(ctx, testOwner, when); err != nil {
		t.Fatalf("SetLastLogin failed: %v", err)
	}

	got, err = db.GetLastLogin(ctx, testOwner)
	if err != nil {
		t.Fatalf("GetLastLogin failed: %v", err)
	}
	if !got.Equal(when) {
		t.Errorf("GetLastLogin = %v, want %v", got, when)
	}

	other, err := db.GetLastLogin(ctx, "bob")
	if err != nil {
		t.Fatalf("GetLastLogin(bob) failed: %v", err)
	}
	if !other.IsZero() {
		t.Errorf("last login leaked across users: %v", other)
	}
}

func TestPlaylistRecords(t *testing.T) {
	t.Parallel()

	db, _ := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetPlaylist(ctx, plA); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPlaylist on empty store: got %v, want ErrNotFound", err)
	}

	if err := db.CreatePlaylist(ctx, PlaylistRecord{URI: plA, Name: "Morning", Owner: testOwner}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := db.CreatePlaylist(ctx, PlaylistRecord{URI: plA, Name: "Again", Owner: testOwner}); err == nil {
		t.Error("expected duplicate CreatePlaylist to fail")
	}

	if err := db.RenamePlaylist(ctx, plA, "Evening"); err != nil {
		t.Fatalf("RenamePlaylist failed: %v", err)
	}
	if err := db.RenamePlaylist(ctx, plB, "Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RenamePlaylist missing: got %v, want ErrNotFound", err)
	}

	rec, err := db.GetPlaylist(ctx, plA)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if rec.Name != "Evening" || rec.Owner != testOwner || rec.URI != plA {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestPlaylistTracks(t *testing.T) {
	t.Parallel()

	tracks := func(n ...string) []string {
		out := make([]string, len(n))
		for i, s := range n {
			out[i] = "spotify:track:" + s
		}
		return out
	}

	tests := []struct {
		name    string
		initial []string
		pos     int
		insert  []string
		remove  []int
		want    []string
		wantErr error
	}{
		{
			name:   "append to empty",
			pos:    0,
			insert: tracks("a", "b"),
			want:   tracks("a", "b"),
		},
		{
			name:    "insert in the middle",
			initial: tracks("a", "d"),
			pos:     1,
			insert:  tracks("b", "c"),
			want:    tracks("a", "b", "c", "d"),
		},
		{
			name:    "insert past the end",
			initial: tracks("a"),
			pos:     2,
			insert:  tracks("b"),
			want:    tracks("a"),
			wantErr: ErrPosition,
		},
		{
			name:    "delete and renumber",
			initial: tracks("a", "b", "c", "d"),
			remove:  []int{0, 2},
			want:    tracks("b", "d"),
		},
		{
			name:    "delete out of range",
			initial: tracks("a"),
			remove:  []int{1},
			want:    tracks("a"),
			wantErr: ErrPosition,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, _ := setupTestDB(t)
			ctx := context.Background()

			if err := db.InsertPlaylistTracks(ctx, plA, 0, tt.initial); err != nil {
				t.Fatalf("seeding tracks failed: %v", err)
			}

			var err error
			if tt.remove != nil {
				err = db.DeletePlaylistTracks(ctx, plA, tt.remove)
			} else {
				err = db.InsertPlaylistTracks(ctx, plA, tt.pos, tt.insert)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}

			got, err := db.GetPlaylistTracks(ctx, plA)
			if err != nil {
				t.Fatalf("GetPlaylistTracks failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tracks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainerEntries(t *testing.T) {
	t.Parallel()

	db, _ := setupTestDB(t)
	ctx := context.Background()

	for i, uri := range []string{plA, plC} {
		if err := db.InsertContainerEntry(ctx, testOwner, i, uri); err != nil {
			t.Fatalf("InsertContainerEntry(%d) failed: %v", i, err)
		}
	}
	if err := db.InsertContainerEntry(ctx, testOwner, 1, plB); err != nil {
		t.Fatalf("InsertContainerEntry in middle failed: %v", err)
	}
	if err := db.InsertContainerEntry(ctx, testOwner, 9, plB); !errors.Is(err, ErrPosition) {
		t.Errorf("insert past end: got %v, want ErrPosition", err)
	}
	if err := db.InsertContainerEntry(ctx, "bob", 0, plC); err != nil {
		t.Fatalf("InsertContainerEntry for bob failed: %v", err)
	}

	got, err := db.ListContainer(ctx, testOwner)
	if err != nil {
		t.Fatalf("ListContainer failed: %v", err)
	}
	if want := []string{plA, plB, plC}; !reflect.DeepEqual(got, want) {
		t.Errorf("container = %v, want %v", got, want)
	}

	if err := db.DeleteContainerEntry(ctx, testOwner, 0); err != nil {
		t.Fatalf("DeleteContainerEntry failed: %v", err)
	}
	if err := db.DeleteContainerEntry(ctx, testOwner, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing entry: got %v, want ErrNotFound", err)
	}

	got, err = db.ListContainer(ctx, testOwner)
	if err != nil {
		t.Fatalf("ListContainer failed: %v", err)
	}
	if want := []string{plB, plC}; !reflect.DeepEqual(got, want) {
		t.Errorf("container after delete = %v, want %v", got, want)
	}

	bobs, err := db.ListContainer(ctx, "bob")
	if err != nil {
		t.Fatalf("ListContainer(bob) failed: %v", err)
	}
	if want := []string{plC}; !reflect.DeepEqual(bobs, want) {
		t.Errorf("bob's container = %v, want %v", bobs, want)
	}
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	db, _ := setupTestDB(t)
	ctx := context.Background()

	if err := db.CreatePlaylist(ctx, PlaylistRecord{URI: plA, Name: "a", Owner: testOwner}); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertContainerEntry(ctx, testOwner, 0, plA); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertPlaylistTracks(ctx, plA, 0, []string{"spotify:track:x", "spotify:track:y"}); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	want := Stats{Playlists: 1, ContainerEntries: 1, Tracks: 2}
	if stats != want {
		t.Errorf("GetStats = %+v, want %+v", stats, want)
	}

	db.UpdateDBMetrics()
}

func TestRecordQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		operation string
		err       error
	}{
		{name: "successful query", operation: "test_operation"},
		{name: "failed query", operation: "test_operation", err: errors.New("test error")},
		{name: "empty operation name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// Must not panic for any label combination.
			recordQuery(tt.operation, time.Now(), tt.err)
		})
	}
}

func TestDefaultTimeoutConstant(t *testing.T) {
	t.Parallel()

	if defaultTimeout != 5*time.Second {
		t.Errorf("defaultTimeout = %v, want 5s", defaultTimeout)
	}
}
