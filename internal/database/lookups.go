package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jroosing/hydrawhois/internal/helpers"
)

// ErrNotFound is returned when a lookup id does not exist.
var ErrNotFound = errors.New("lookup not found")

// MaxListLimit caps ListLookups.
const MaxListLimit = 1000

// Lookup is one row of the history.
type Lookup struct {
	ID             string          `json:"id"`
	Domain         string          `json:"domain"`
	RootServer     string          `json:"root_server"`
	ReferralServer string          `json:"referral_server,omitempty"`
	Outcome        string          `json:"outcome"`
	ErrorKind      string          `json:"error_kind,omitempty"`
	DurationMs     int64           `json:"duration_ms"`
	RawSize        int             `json:"raw_size"`
	Record         json.RawMessage `json:"record,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

const lookupColumns = `id, domain, root_server, referral_server, outcome, error_kind,
	duration_ms, raw_size, record_json, created_at`

// RecordLookup appends a lookup. ID and CreatedAt are filled in when empty.
func (db *DB) RecordLookup(ctx context.Context, l *Lookup) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	var record sql.NullString
	if len(l.Record) > 0 {
		record = sql.NullString{String: string(l.Record), Valid: true}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO lookups (`+lookupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.Domain, l.RootServer, l.ReferralServer, l.Outcome, l.ErrorKind,
		l.DurationMs, l.RawSize, record, l.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record lookup for %s: %w", l.Domain, err)
	}
	return nil
}

// ListLookups returns the most recent lookups, newest first. limit is clamped
// to 1..MaxListLimit.
func (db *DB) ListLookups(ctx context.Context, limit int) ([]Lookup, error) {
	limit = helpers.ClampInt(limit, 1, MaxListLimit)

	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+lookupColumns+`
		FROM lookups
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var out []Lookup
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookups: %w", err)
	}
	return out, nil
}

// GetLookup returns a single lookup or ErrNotFound.
func (db *DB) GetLookup(ctx context.Context, id string) (Lookup, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRowContext(ctx, `SELECT `+lookupColumns+` FROM lookups WHERE id = ?`, id)
	l, err := scanLookup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Lookup{}, ErrNotFound
	}
	return l, err
}

// CountLookups returns the number of stored lookups.
func (db *DB) CountLookups(ctx context.Context) (int64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM lookups").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return n, nil
}

// PruneLookups deletes all but the newest keep lookups and returns the
// number of rows removed.
func (db *DB) PruneLookups(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `
		DELETE FROM lookups
		WHERE rowid NOT IN (
			SELECT rowid FROM lookups
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookups: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLookup(s rowScanner) (Lookup, error) {
	var (
		l         Lookup
		record    sql.NullString
		createdAt int64
	)
	err := s.Scan(
		&l.ID, &l.Domain, &l.RootServer, &l.ReferralServer, &l.Outcome, &l.ErrorKind,
		&l.DurationMs, &l.RawSize, &record, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Lookup{}, err
	}
	if err != nil {
		return Lookup{}, fmt.Errorf("failed to scan lookup: %w", err)
	}
	if record.Valid {
		l.Record = json.RawMessage(record.String)
	}
	l.CreatedAt = time.UnixMilli(createdAt).UTC()
	return l, nil
}
