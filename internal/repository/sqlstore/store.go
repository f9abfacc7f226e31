// Package sqlstore keeps blobs in a two-column SQL table over database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect holds the driver name and statements for one SQL engine
type Dialect struct {
	Driver       string
	CreateTable  string
	SelectBlob   string
	UpsertBlob   string
	DeleteBlob   string
	MaxOpenConns int
}

var SQLite = Dialect{
	Driver: "sqlite",
	CreateTable: `CREATE TABLE IF NOT EXISTS playground_blobs (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	SelectBlob: `SELECT data FROM playground_blobs WHERE name = ?`,
	UpsertBlob: `INSERT INTO playground_blobs (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
	DeleteBlob:   `DELETE FROM playground_blobs WHERE name = ?`,
	MaxOpenConns: 1, // SQLite only supports one writer
}

var MySQL = Dialect{
	Driver: "mysql",
	CreateTable: `CREATE TABLE IF NOT EXISTS playground_blobs (
		name VARCHAR(191) NOT NULL PRIMARY KEY,
		data LONGBLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	SelectBlob:   `SELECT data FROM playground_blobs WHERE name = ?`,
	UpsertBlob:   `INSERT INTO playground_blobs (name, data) VALUES (?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data)`,
	DeleteBlob:   `DELETE FROM playground_blobs WHERE name = ?`,
	MaxOpenConns: 5,
}

// Store is a blob table behind a database/sql pool
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens a SQLite database file with WAL journaling
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database file path is required")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	return Open(ctx, SQLite, dsn)
}

// OpenMySQL opens a MySQL database from a go-sql-driver DSN
func OpenMySQL(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql dsn is required")
	}
	return Open(ctx, MySQL, dsn)
}

// Open connects with the given dialect and ensures the blob table exists
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(dialect.MaxOpenConns)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, dialect.CreateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create blob table: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.dialect.SelectBlob, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.UpsertBlob, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.DeleteBlob, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
