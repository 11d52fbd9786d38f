package migrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/docvault/docvault/pkg/config"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Migration is a single versioned schema change with its rollback.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies versioned SQL files against the metadata database,
// tracking progress in a schema_migrations table.
type Migrator struct {
	db  *sql.DB
	src fs.FS
	dir string
}

// NewMigrator opens a connection and verifies it before returning.
func NewMigrator(cfg *config.DatabaseConfig, src fs.FS, dir string) (*Migrator, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Migrator{db: db, src: src, dir: dir}, nil
}

// Close releases the database connection.
func (m *Migrator) Close() error {
	return m.db.Close()
}

// Up applies every migration that has not been recorded yet, in version order.
func (m *Migrator) Up() error {
	if err := m.ensureVersionTable(); err != nil {
		return err
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	all, err := m.loadMigrations()
	if err != nil {
		return err
	}

	var pending []*Migration
	for _, mig := range all {
		if !applied[mig.Version] {
			pending = append(pending, mig)
		}
	}

	if len(pending) == 0 {
		log.Info().Msg("No pending migrations")
		return nil
	}

	log.Info().Int("count", len(pending)).Msg("Running pending migrations")
	for _, mig := range pending {
		if err := m.execInTx(mig.UpSQL,
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", mig.Version, mig.Name); err != nil {
			return fmt.Errorf("migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("Applied migration")
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down() error {
	if err := m.ensureVersionTable(); err != nil {
		return err
	}

	var last int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&last)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	if last == 0 {
		log.Info().Msg("No migrations to roll back")
		return nil
	}

	all, err := m.loadMigrations()
	if err != nil {
		return err
	}

	var target *Migration
	for _, mig := range all {
		if mig.Version == last {
			target = mig
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration file for version %d not found", last)
	}

	if err := m.execInTx(target.DownSQL,
		"DELETE FROM schema_migrations WHERE version = $1", target.Version); err != nil {
		return fmt.Errorf("rollback %d (%s): %w", target.Version, target.Name, err)
	}
	log.Info().Int("version", target.Version).Str("name", target.Name).Msg("Rolled back migration")
	return nil
}

func (m *Migrator) ensureVersionTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) loadMigrations() ([]*Migration, error) {
	entries, err := fs.ReadDir(m.src, m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []*Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		mig, err := m.parseFile(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping invalid migration file")
			continue
		}
		migrations = append(migrations, mig)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseFile reads a migration named like "001_create_documents.sql" and splits
// it at the up/down markers.
func (m *Migrator) parseFile(filename string) (*Migration, error) {
	prefix, rest, ok := strings.Cut(filename, "_")
	if !ok {
		return nil, fmt.Errorf("invalid migration filename: %s", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid version prefix in %s: %w", filename, err)
	}

	content, err := fs.ReadFile(m.src, m.dir+"/"+filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var up, down []string
	section := &up
	for _, line := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(line) {
		case upMarker:
			section = &up
		case downMarker:
			section = &down
		default:
			*section = append(*section, line)
		}
	}

	return &Migration{
		Version: version,
		Name:    strings.TrimSuffix(rest, ".sql"),
		UpSQL:   strings.Join(up, "\n"),
		DownSQL: strings.Join(down, "\n"),
	}, nil
}

// execInTx runs the migration statement and its bookkeeping update atomically.
func (m *Migrator) execInTx(migrationSQL, recordSQL string, args ...any) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migrationSQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}
	if _, err := tx.Exec(recordSQL, args...); err != nil {
		return fmt.Errorf("failed to update migration record: %w", err)
	}
	return tx.Commit()
}
