package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetMetadata retrieves a metadata value by key.
// Returns sql.ErrNoRows if the key doesn't exist.
func (d *Database) GetMetadata(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	var value sql.NullString
	err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	recordQuery("get_metadata", start, ignoreNoRows(err))
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// SetMetadata sets a metadata key-value pair.
func (d *Database) SetMetadata(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	recordQuery("set_metadata", start, err)
	return err
}

// GetLastLogin returns when user last opened a session.
// Returns zero time if the user never logged in.
func (d *Database) GetLastLogin(ctx context.Context, user string) (time.Time, error) {
	value, err := d.GetMetadata(ctx, lastLoginKey(user))
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

// SetLastLogin stores when user opened a session.
func (d *Database) SetLastLogin(ctx context.Context, user string, t time.Time) error {
	if t.IsZero() {
		return d.SetMetadata(ctx, lastLoginKey(user), "")
	}
	return d.SetMetadata(ctx, lastLoginKey(user), t.UTC().Format(time.RFC3339))
}

func lastLoginKey(user string) string {
	return "last_login:" + user
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
