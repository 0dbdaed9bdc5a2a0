package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PlaylistRecord is a stored playlist.
type PlaylistRecord struct {
	URI       string
	Name      string
	Owner     string
	CreatedAt time.Time
}

// CreatePlaylist stores a new playlist. The URI must not exist yet.
func (d *Database) CreatePlaylist(ctx context.Context, rec PlaylistRecord) error {
	return d.withTx(ctx, "create_playlist", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO playlists (uri, name, owner) VALUES (?, ?, ?)`,
			rec.URI, rec.Name, rec.Owner)
		if err != nil {
			return fmt.Errorf("create playlist %s: %w", rec.URI, err)
		}
		return nil
	})
}

// GetPlaylist returns the stored playlist with the given URI.
func (d *Database) GetPlaylist(ctx context.Context, uri string) (*PlaylistRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	var rec PlaylistRecord
	var created int64
	err := d.db.QueryRowContext(ctx,
		`SELECT uri, name, owner, created_at FROM playlists WHERE uri = ?`, uri,
	).Scan(&rec.URI, &rec.Name, &rec.Owner, &created)
	recordQuery("get_playlist", start, ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %s: %w", uri, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = time.Unix(created, 0)
	return &rec, nil
}

// RenamePlaylist changes the name of a stored playlist.
func (d *Database) RenamePlaylist(ctx context.Context, uri, name string) error {
	return d.withTx(ctx, "rename_playlist", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE playlists SET name = ?, updated_at = strftime('%s', 'now') WHERE uri = ?`,
			name, uri)
		if err != nil {
			return err
		}
		return requireAffected(res, "playlist "+uri)
	})
}

// GetPlaylistTracks returns the track URIs of a playlist in order.
func (d *Database) GetPlaylistTracks(ctx context.Context, uri string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := d.db.QueryContext(ctx,
		`SELECT track_uri FROM playlist_tracks WHERE playlist_uri = ? ORDER BY position`, uri)
	if err != nil {
		recordQuery("get_playlist_tracks", start, err)
		return nil, err
	}
	tracks, err := scanStrings(rows)
	recordQuery("get_playlist_tracks", start, err)
	return tracks, err
}

// InsertPlaylistTracks inserts track URIs at pos, shifting later tracks.
func (d *Database) InsertPlaylistTracks(ctx context.Context, uri string, pos int, trackURIs []string) error {
	if len(trackURIs) == 0 {
		return nil
	}

	return d.withTx(ctx, "insert_playlist_tracks", func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_uri = ?`, uri,
		).Scan(&count); err != nil {
			return err
		}
		if pos < 0 || pos > count {
			return fmt.Errorf("insert at %d into %d tracks: %w", pos, count, ErrPosition)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE playlist_tracks SET position = position + ? WHERE playlist_uri = ? AND position >= ?`,
			len(trackURIs), uri, pos); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO playlist_tracks (playlist_uri, position, track_uri) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, track := range trackURIs {
			if _, err := stmt.ExecContext(ctx, uri, pos+i, track); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePlaylistTracks removes the tracks at the given positions and
// renumbers the rest.
func (d *Database) DeletePlaylistTracks(ctx context.Context, uri string, positions []int) error {
	if len(positions) == 0 {
		return nil
	}

	return d.withTx(ctx, "delete_playlist_tracks", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT track_uri FROM playlist_tracks WHERE playlist_uri = ? ORDER BY position`, uri)
		if err != nil {
			return err
		}
		tracks, err := scanStrings(rows)
		if err != nil {
			return err
		}

		drop := make(map[int]bool, len(positions))
		for _, p := range positions {
			if p < 0 || p >= len(tracks) {
				return fmt.Errorf("delete track %d of %d: %w", p, len(tracks), ErrPosition)
			}
			drop[p] = true
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_uri = ?`, uri); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO playlist_tracks (playlist_uri, position, track_uri) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		next := 0
		for i, track := range tracks {
			if drop[i] {
				continue
			}
			if _, err := stmt.ExecContext(ctx, uri, next, track); err != nil {
				return err
			}
			next++
		}
		return nil
	})
}

// ListContainer returns the playlist URIs in owner's container, in order.
func (d *Database) ListContainer(ctx context.Context, owner string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := d.db.QueryContext(ctx,
		`SELECT playlist_uri FROM container_entries WHERE owner = ? ORDER BY position`, owner)
	if err != nil {
		recordQuery("list_container", start, err)
		return nil, err
	}
	uris, err := scanStrings(rows)
	recordQuery("list_container", start, err)
	return uris, err
}

// InsertContainerEntry inserts a playlist into owner's container at pos.
func (d *Database) InsertContainerEntry(ctx context.Context, owner string, pos int, uri string) error {
	return d.withTx(ctx, "insert_container_entry", func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM container_entries WHERE owner = ?`, owner,
		).Scan(&count); err != nil {
			return err
		}
		if pos < 0 || pos > count {
			return fmt.Errorf("insert at %d into container of %d: %w", pos, count, ErrPosition)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE container_entries SET position = position + 1 WHERE owner = ? AND position >= ?`,
			owner, pos); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO container_entries (owner, position, playlist_uri) VALUES (?, ?, ?)`,
			owner, pos, uri)
		return err
	})
}

// DeleteContainerEntry removes the entry at pos from owner's container.
func (d *Database) DeleteContainerEntry(ctx context.Context, owner string, pos int) error {
	return d.withTx(ctx, "delete_container_entry", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM container_entries WHERE owner = ? AND position = ?`, owner, pos)
		if err != nil {
			return err
		}
		if err := requireAffected(res, fmt.Sprintf("container entry %d", pos)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE container_entries SET position = position - 1 WHERE owner = ? AND position > ?`,
			owner, pos)
		return err
	})
}

// Stats is a summary of the store contents.
type Stats struct {
	Playlists        int
	ContainerEntries int
	Tracks           int
}

// GetStats counts stored playlists, container entries and playlist tracks.
func (d *Database) GetStats(ctx context.Context) (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	var s Stats
	err := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM playlists),
			(SELECT COUNT(*) FROM container_entries),
			(SELECT COUNT(*) FROM playlist_tracks)
	`).Scan(&s.Playlists, &s.ContainerEntries, &s.Tracks)
	recordQuery("get_stats", start, err)
	return s, err
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
