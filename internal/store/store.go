// Package store keeps daily observations for one or more stations in a
// SQLite database so long histories can be imported once and rendered many
// times.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/yearwheel/internal/monitoring"
	"github.com/banshee-data/yearwheel/internal/series"
	"github.com/banshee-data/yearwheel/internal/yearwheel"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the observation database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the database at path and applies all
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &Store{db}
	if err := s.MigrateUp(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// MigrateUp runs all pending embedded migrations.
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// Closing m would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the applied schema version. 0 means none.
func (s *Store) MigrateVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// Batch records one import.
type Batch struct {
	ID         uuid.UUID
	Station    string
	Source     string
	Rows       int
	ImportedAt time.Time
}

// Import upserts observations for station in a single transaction and
// records the batch. Within a batch the first row for a date wins, as it
// does when a CSV is loaded directly; across batches the newer batch
// replaces earlier values. Rows without a valid value are stored as NULL
// so the gap is interpolated on load.
func (s *Store) Import(ctx context.Context, station, source string, obs []series.Observation) (Batch, error) {
	if station == "" {
		return Batch{}, fmt.Errorf("import: station is required")
	}
	obs, dups := series.Dedup(obs)
	if dups > 0 {
		monitoring.Logf("store: skipped %d duplicate dates in %s", dups, source)
	}
	b := Batch{ID: uuid.New(), Station: station, Source: source, Rows: len(obs)}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_batches (batch_id, station, source, row_count) VALUES (?, ?, ?, ?)`,
		b.ID.String(), station, source, b.Rows,
	); err != nil {
		return Batch{}, fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (station, obs_date, value, batch_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (station, obs_date) DO UPDATE SET
			value = excluded.value,
			batch_id = excluded.batch_id`)
	if err != nil {
		return Batch{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		var v sql.NullFloat64
		if o.Valid && !math.IsNaN(o.Value) {
			v = sql.NullFloat64{Float64: o.Value, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, station, o.Date.Format(time.DateOnly), v, b.ID.String()); err != nil {
			return Batch{}, fmt.Errorf("insert %s: %w", o.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("commit import: %w", err)
	}
	monitoring.Logf("store: imported %d rows for %s (batch %s)", b.Rows, station, b.ID)
	return b, nil
}

// Observations returns station's rows ordered by date.
func (s *Store) Observations(ctx context.Context, station string) ([]series.Observation, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT obs_date, value FROM observations WHERE station = ? ORDER BY obs_date`, station)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []series.Observation
	for rows.Next() {
		var date string
		var v sql.NullFloat64
		if err := rows.Scan(&date, &v); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		d, err := series.ParseDate(date, time.DateOnly)
		if err != nil {
			return nil, err
		}
		o := series.Observation{Date: d, Value: math.NaN()}
		if v.Valid {
			o.Value, o.Valid = v.Float64, true
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LoadSamples returns station's gap-filled daily samples.
func (s *Store) LoadSamples(ctx context.Context, station string) ([]yearwheel.Sample, error) {
	obs, err := s.Observations(ctx, station)
	if err != nil {
		return nil, err
	}
	samples, err := series.Fill(obs)
	if err != nil {
		return nil, fmt.Errorf("station %q: %w", station, err)
	}
	return samples, nil
}

// Stations lists stations that have observations.
func (s *Store) Stations(ctx context.Context) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT DISTINCT station FROM observations ORDER BY station`)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Batches lists imports for station, oldest first.
func (s *Store) Batches(ctx context.Context, station string) ([]Batch, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT batch_id, station, source, row_count, imported_at
		FROM import_batches WHERE station = ? ORDER BY imported_at, rowid`, station)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		var id string
		if err := rows.Scan(&id, &b.Station, &b.Source, &b.Rows, &b.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("batch id %q: %w", id, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
