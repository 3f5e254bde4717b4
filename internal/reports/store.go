package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Report is one rider-submitted arrival sighting.
type Report struct {
	ID             string
	Timestamp      time.Time
	StopID         string
	LineID         string
	ArrivalSeconds int
	Mode           string
	Lat            *float64
	Lon            *float64
}

// Store persists crowd reports in SQLite. Reads filter by stop, line,
// and age; writes are append-only.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the reports database at dbPath. Pass
// ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open reports database: %w", err)
	}

	// A single writer keeps SQLite happy under concurrent appends.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping reports database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS crowd_reports (
			id               TEXT PRIMARY KEY,
			reported_at_utc  TEXT NOT NULL,
			stop_id          TEXT NOT NULL,
			line_id          TEXT NOT NULL DEFAULT '',
			arrival_seconds  INTEGER NOT NULL,
			mode             TEXT NOT NULL DEFAULT '',
			latitude         REAL,
			longitude        REAL
		);
		CREATE INDEX IF NOT EXISTS idx_crowd_reports_stop_time
			ON crowd_reports (stop_id, reported_at_utc);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize reports schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a report and returns it with its assigned ID. The
// caller supplies the timestamp so report age is measured against the
// service clock.
func (s *Store) Append(ctx context.Context, r Report) (Report, error) {
	if r.StopID == "" {
		return Report{}, errors.New("stop_id cannot be empty")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	const insert = `
		INSERT INTO crowd_reports
			(id, reported_at_utc, stop_id, line_id, arrival_seconds, mode, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, insert,
		r.ID,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.StopID,
		r.LineID,
		r.ArrivalSeconds,
		r.Mode,
		r.Lat,
		r.Lon,
	)
	if err != nil {
		return Report{}, fmt.Errorf("failed to insert report: %w", err)
	}
	return r, nil
}

// Recent returns the reports for the stop reported at or after since,
// newest last. When lineID is non-empty only reports tagged with that
// line match; untagged reports never match a line-filtered query.
func (s *Store) Recent(ctx context.Context, stopID, lineID string, since time.Time) ([]Report, error) {
	query := `
		SELECT id, reported_at_utc, stop_id, line_id, arrival_seconds, mode, latitude, longitude
		FROM crowd_reports
		WHERE stop_id = ? AND reported_at_utc >= ?
	`
	args := []interface{}{stopID, since.UTC().Format(time.RFC3339Nano)}
	if lineID != "" {
		query += " AND line_id = ?"
		args = append(args, lineID)
	}
	query += " ORDER BY reported_at_utc"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		var ts string
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&r.ID, &ts, &r.StopID, &r.LineID, &r.ArrivalSeconds, &r.Mode, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("failed to parse report timestamp %q: %w", ts, err)
		}
		if lat.Valid {
			r.Lat = &lat.Float64
		}
		if lon.Valid {
			r.Lon = &lon.Float64
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return out, nil
}
