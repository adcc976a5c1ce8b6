package savestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db   *sql.DB
	now  func() time.Time
	once sync.Once
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			key TEXT PRIMARY KEY,
			blob BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, name string, blob []byte) (time.Time, error) {
	key, err := Key(name)
	if err != nil {
		return time.Time{}, err
	}
	at := s.now().UTC().Truncate(time.Millisecond)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves(key,blob,saved_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET blob=excluded.blob, saved_at=excluded.saved_at`,
		key, blob, at.UnixMilli())
	if err != nil {
		return time.Time{}, fmt.Errorf("save %s: %w", key, err)
	}
	return at, nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (Record, error) {
	key, err := Key(name)
	if err != nil {
		return Record{}, err
	}
	var (
		blob []byte
		ms   int64
	)
	err = s.db.QueryRowContext(ctx, `SELECT blob,saved_at FROM saves WHERE key=?`, key).Scan(&blob, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load %s: %w", key, err)
	}
	return Record{Name: nameFromKey(key), Blob: blob, SavedAt: time.UnixMilli(ms).UTC()}, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, name string) (bool, error) {
	key, err := Key(name)
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM saves WHERE key=?`, key).Scan(&n); err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	key, err := Key(name)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE key=?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key,length(blob),saved_at FROM saves ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Info
	for rows.Next() {
		var (
			key  string
			size int
			ms   int64
		)
		if err := rows.Scan(&key, &size, &ms); err != nil {
			return nil, err
		}
		out = append(out, Info{Name: nameFromKey(key), Size: size, SavedAt: time.UnixMilli(ms).UTC()})
	}
	return out, rows.Err()
}

// UpsertCatalogs records the content digests the server was started with.
func (s *SQLiteStore) UpsertCatalogs(ctx context.Context, digests map[string]string) error {
	names := make([]string, 0, len(digests))
	for n := range digests {
		names = append(names, n)
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalogs(name,digest,updated_at) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := s.now().UTC().UnixMilli()
	for _, n := range names {
		if _, err := stmt.ExecContext(ctx, n, digests[n], now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CatalogDigests returns what UpsertCatalogs last recorded.
func (s *SQLiteStore) CatalogDigests(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name,digest FROM catalogs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var n, d string
		if err := rows.Scan(&n, &d); err != nil {
			return nil, err
		}
		out[n] = d
	}
	return out, rows.Err()
}
