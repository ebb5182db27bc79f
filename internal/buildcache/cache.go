package buildcache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added lookup index on (crate, profile, kind, target, seq)
const currentSchemaVersion = 1

// Build is one recorded artifact build.
type Build struct {
	ID           string
	Seq          int64
	Key          Key
	Fingerprint  string
	ArtifactPath string
	Version      string
	Sources      []string
}

// Key identifies a build configuration. Two builds with the same key and
// fingerprint produce interchangeable artifacts.
type Key struct {
	Crate   string
	Profile string
	Kind    string
	Target  string
}

// Cache is a SQLite-backed build record store.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path. Use ":memory:" for an
// in-process cache.
//
// This function is idempotent - safe to call on an existing cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open build cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to build cache: %w", err)
	}

	// SQLite supports one writer; a single connection also keeps ":memory:"
	// pointing at one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record inserts b, assigning its Seq. Recording the same build ID twice
// is an error.
func (c *Cache) Record(ctx context.Context, b *Build) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&seq); err != nil {
		return fmt.Errorf("record build: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds
		(build_id, seq, crate, profile, kind, target, fingerprint, artifact_path, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID,
		seq,
		b.Key.Crate,
		b.Key.Profile,
		b.Key.Kind,
		b.Key.Target,
		b.Fingerprint,
		b.ArtifactPath,
		b.Version,
	)
	if err != nil {
		return fmt.Errorf("record build %s: %w", b.ID, err)
	}

	for _, path := range b.Sources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO build_sources (build_id, path) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			b.ID, path,
		); err != nil {
			return fmt.Errorf("record build %s: source %s: %w", b.ID, path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record build %s: commit: %w", b.ID, err)
	}
	b.Seq = seq
	return nil
}

// Latest returns the most recent build for key. The boolean is false when
// no build has been recorded for it.
func (c *Cache) Latest(ctx context.Context, key Key) (*Build, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT build_id, seq, fingerprint, artifact_path, version
		FROM builds
		WHERE crate = ? AND profile = ? AND kind = ? AND target = ?
		ORDER BY seq DESC
		LIMIT 1
	`, key.Crate, key.Profile, key.Kind, key.Target)

	b := &Build{Key: key}
	err := row.Scan(&b.ID, &b.Seq, &b.Fingerprint, &b.ArtifactPath, &b.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("latest build: %w", err)
	}

	b.Sources, err = c.sources(ctx, b.ID)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// History returns up to limit builds of crate, newest first.
func (c *Cache) History(ctx context.Context, crate string, limit int) ([]Build, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT build_id, seq, profile, kind, target, fingerprint, artifact_path, version
		FROM builds
		WHERE crate = ?
		ORDER BY seq DESC
		LIMIT ?
	`, crate, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b := Build{Key: Key{Crate: crate}}
		if err := rows.Scan(&b.ID, &b.Seq, &b.Key.Profile, &b.Key.Kind, &b.Key.Target,
			&b.Fingerprint, &b.ArtifactPath, &b.Version); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

func (c *Cache) sources(ctx context.Context, buildID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT path FROM build_sources WHERE build_id = ? ORDER BY path COLLATE BINARY ASC`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return paths, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if _, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_builds_lookup
			ON builds(crate, profile, kind, target, seq)
		`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// userVersion reports the applied schema version. Used for testing.
func (c *Cache) userVersion() (int, error) {
	var v int
	err := c.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}
