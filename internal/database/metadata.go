package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetMetadata retrieves a metadata value by key. It returns ErrNotFound when
// the key has never been set.
func (d *Database) GetMetadata(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// SetMetadata sets a metadata key-value pair.
func (d *Database) SetMetadata(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// SchemaVersion returns the schema version recorded by the last migration.
func (d *Database) SchemaVersion(ctx context.Context) (string, error) {
	return d.GetMetadata(ctx, "schema_version")
}

// GetLastImport returns when a project was last imported. Returns zero time
// if nothing was ever imported.
func (d *Database) GetLastImport(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, "last_import")
	if errors.Is(err, ErrNotFound) || value == "" {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

func setLastImport(ctx context.Context, tx *Batch, t time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES ('last_import', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, t.UTC().Format(time.RFC3339))
	return err
}
