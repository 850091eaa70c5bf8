package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bcdxn/f1strategy/internal/domain"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for historical lap data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS laps (
			id INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			lap INTEGER NOT NULL,
			lap_time REAL NOT NULL,
			compound TEXT NOT NULL,
			tire_age INTEGER NOT NULL,
			track_temp REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_laps_compound ON laps(compound);`,
		`CREATE INDEX IF NOT EXISTS idx_laps_source ON laps(source);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertLaps stores lap records under a source label (e.g. "bahrain-2024")
// so that calibrations can be scoped to a session.
func (s *Store) InsertLaps(ctx context.Context, source string, records []LapRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO laps (source, lap, lap_time, compound, tire_age, track_temp)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx, source, rec.Lap, rec.LapTime, string(rec.Compound), rec.TireAge, rec.TrackTemp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LapsByCompound returns the stored laps for one compound, optionally scoped
// to a source label, ordered by tire age for the calibration fit.
func (s *Store) LapsByCompound(ctx context.Context, compound domain.TireCompound, source string) ([]LapRecord, error) {
	query := `SELECT lap, lap_time, compound, tire_age, track_temp
		FROM laps
		WHERE compound = ? AND (? = '' OR source = ?)
		ORDER BY tire_age ASC`
	rows, err := s.db.QueryContext(ctx, query, string(compound), source, source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []LapRecord
	for rows.Next() {
		var rec LapRecord
		var c string
		if err := rows.Scan(&rec.Lap, &rec.LapTime, &c, &rec.TireAge, &rec.TrackTemp); err != nil {
			return nil, err
		}
		rec.Compound = domain.TireCompound(c)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Compounds returns the distinct compounds present in the store, optionally
// scoped to a source label.
func (s *Store) Compounds(ctx context.Context, source string) ([]domain.TireCompound, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT compound FROM laps WHERE (? = '' OR source = ?) ORDER BY compound`,
		source, source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var compounds []domain.TireCompound
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		compounds = append(compounds, domain.TireCompound(c))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return compounds, nil
}

// CountLaps returns the number of stored laps, optionally scoped to a source.
func (s *Store) CountLaps(ctx context.Context, source string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM laps WHERE (? = '' OR source = ?)`, source, source).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting laps: %w", err)
	}
	return n, nil
}
