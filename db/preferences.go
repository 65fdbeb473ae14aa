package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// PreferencesTable is the name of the table that stores serialized notification preferences.
const PreferencesTable = "notification_preferences"

// GetPreferenceBlob retrieves the serialized preferences stored under a key. The second return value is false if
// nothing is stored under the key.
func GetPreferenceBlob(ctx context.Context, tx *sql.Tx, key string) (string, bool, error) {
	wrapMsg := fmt.Sprintf("unable to get the notification preferences for `%s`", key)

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("value").
		From(PreferencesTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	var value string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	return value, true, nil
}

// PutPreferenceBlob stores serialized preferences under a key, replacing any existing value.
func PutPreferenceBlob(ctx context.Context, tx *sql.Tx, key, value string, updatedAt time.Time) error {
	wrapMsg := fmt.Sprintf("unable to store the notification preferences for `%s`", key)

	// Build the upsert statement.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert(PreferencesTable).
		Columns("key", "value", "updated_at").
		Values(key, value, updatedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the statement and verify that a row was written.
	result, err := tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if rowsAffected != 1 {
		return errors.Errorf("%s: unexpected number of rows affected: %d", wrapMsg, rowsAffected)
	}

	return nil
}

// PreferenceStore persists notification preferences in PostgreSQL. Each operation runs in its own transaction.
type PreferenceStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPreferenceStore returns a store backed by the given database.
func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db, now: time.Now}
}

// Get returns the serialized preferences stored under key.
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	wrapMsg := "unable to read notification preferences"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}
	defer tx.Rollback()

	value, found, err := GetPreferenceBlob(ctx, tx, key)
	if err != nil {
		return "", false, err
	}

	if err = tx.Commit(); err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	return value, found, nil
}

// Set stores serialized preferences under key.
func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	wrapMsg := "unable to write notification preferences"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer tx.Rollback()

	if err = PutPreferenceBlob(ctx, tx, key, value, s.now()); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}
