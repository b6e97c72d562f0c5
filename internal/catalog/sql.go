package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown catalog driver")

var sqlDrivers = map[string]string{
	DriverSQLite:   "sqlite",
	DriverPostgres: "pgx",
}

// Open loads the catalog from the configured backend. The memory driver
// ignores dsn and serves Sample.
func Open(ctx context.Context, driver, dsn string) (*Catalog, error) {
	if driver == DriverMemory {
		return New(Sample()), nil
	}

	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return Load(ctx, db)
}

// OpenDB opens and pings the catalog database without loading it. A missing
// SQLite file is an error rather than an empty database.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	name, ok := sqlDrivers[driver]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
	if driver == DriverSQLite {
		if _, err := os.Stat(dsn); err != nil {
			return nil, fmt.Errorf("catalog database %s: %w", dsn, err)
		}
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// Load reads every row of the Materials table.
func Load(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, price FROM Materials ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			price sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Name, &price); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		e.Price, e.Priced = price.Float64, price.Valid
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return New(entries), nil
}

var materialsDDL = map[string]string{
	DriverSQLite: `CREATE TABLE IF NOT EXISTS Materials (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		price REAL
	)`,
	DriverPostgres: `CREATE TABLE IF NOT EXISTS Materials (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		price DOUBLE PRECISION
	)`,
}

var insertMaterial = map[string]string{
	DriverSQLite:   `INSERT OR REPLACE INTO Materials (id, name, price) VALUES (?, ?, ?)`,
	DriverPostgres: `INSERT INTO Materials (id, name, price) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`,
}

// Init creates the Materials table and upserts entries in one transaction.
func Init(ctx context.Context, db *sql.DB, driver string, entries []Entry) (retErr error) {
	ddl, ok := materialsDDL[driver]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create materials table: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertMaterial[driver])
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		var price any
		if e.Priced {
			price = e.Price
		}
		if _, err := stmt.ExecContext(ctx, e.ID, Canonical(e.Name), price); err != nil {
			return fmt.Errorf("insert %s: %w", e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CreateSQLite creates (or updates) a SQLite catalog file at path.
func CreateSQLite(ctx context.Context, path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open(sqlDrivers[DriverSQLite], path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()
	return Init(ctx, db, DriverSQLite, entries)
}
