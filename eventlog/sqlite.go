package eventlog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/scottlawsonbc/pvtrace/trace"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteSink writes ray/event rows to a SQLite database through the
// pure-Go modernc.org/sqlite driver, applying schema migrations with
// golang-migrate's iofs source the same way the pack's own database layer
// does (embed the migration files, point an iofs source driver at them,
// wire up the sqlite database driver, then Up()).
type SQLiteSink struct {
	db *sql.DB
	mu sync.Mutex

	insertRay   *sql.Stmt
	insertEvent *sql.Stmt
}

var _ trace.Sink = (*SQLiteSink)(nil)

// OpenSQLiteSink opens (creating if necessary) the SQLite database at dsn
// and brings its schema up to date.
func OpenSQLiteSink(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &SinkError{Err: fmt.Errorf("open %q: %w", dsn, err)}
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, &SinkError{Err: err}
	}

	insertRay, err := db.Prepare(`INSERT INTO ray (throw_id, x, y, z, i, j, k, wavelength, source, travelled, duration) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, &SinkError{Err: err}
	}
	insertEvent, err := db.Prepare(`INSERT INTO event (ray_id, kind, component, hit, container, adjacent, facet, ni, nj, nk) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		insertRay.Close()
		db.Close()
		return nil, &SinkError{Err: err}
	}

	return &SQLiteSink{db: db, insertRay: insertRay, insertEvent: insertEvent}, nil
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Emit writes one ray/event row pair. Safe for concurrent use by
// TraceBatch's workers: writes are serialised behind a mutex since the
// prepared statements are shared.
func (s *SQLiteSink) Emit(e trace.Event) error {
	ray, event := toRows(e)
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.insertRay.Exec(ray.ThrowID, ray.X, ray.Y, ray.Z, ray.I, ray.J, ray.K, ray.WavelengthNM, ray.Source, ray.TravelledNM, ray.DurationSeconds)
	if err != nil {
		return &SinkError{Err: fmt.Errorf("insert ray: %w", err)}
	}
	rayRowID, err := res.LastInsertId()
	if err != nil {
		return &SinkError{Err: fmt.Errorf("ray rowid: %w", err)}
	}
	if _, err := s.insertEvent.Exec(rayRowID, event.Kind, event.Component, event.Hit, event.Container, event.Adjacent, event.Facet, event.NI, event.NJ, event.NK); err != nil {
		return &SinkError{Err: fmt.Errorf("insert event: %w", err)}
	}
	return nil
}

// Close releases the sink's prepared statements and database handle.
func (s *SQLiteSink) Close() error {
	s.insertRay.Close()
	s.insertEvent.Close()
	return s.db.Close()
}
