package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"examhub/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrator applies up migrations read through a golang-migrate source driver
// and records each applied version in schema_migrations.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

// NewMigrator reads migrations from dir inside fsys.
func NewMigrator(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// NewEmbeddedMigrator uses the migrations compiled into the binary.
func NewEmbeddedMigrator(db *sqlx.DB) (*Migrator, error) {
	return NewMigrator(db, embeddedMigrations, "migrations")
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

// Versions lists every up migration version in ascending order.
func (m *Migrator) Versions() ([]uint, error) {
	var versions []uint
	v, err := m.src.First()
	for err == nil {
		versions = append(versions, v)
		v, err = m.src.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	return versions, nil
}

// Up applies every migration not yet recorded and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var appliedList []int64
	if err := m.db.SelectContext(ctx, &appliedList, `SELECT version FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	applied := make(map[uint]bool, len(appliedList))
	for _, v := range appliedList {
		applied[uint(v)] = true
	}

	versions, err := m.Versions()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, v := range versions {
		if applied[v] {
			continue
		}
		if err := m.apply(ctx, v); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var exists int
	err := m.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`)
	if err != nil {
		return fmt.Errorf("failed to check schema_migrations: %w", err)
	}
	if exists > 0 {
		return nil
	}
	_, err = m.db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, version uint) error {
	r, identifier, err := m.src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	// Oracle DDL commits implicitly, so statements run one by one.
	for i, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) statement %d failed: %w", version, identifier, i+1, err)
		}
	}

	if _, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, int64(version)); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	logger.Get().Info("Applied migration", zap.Uint("version", version), zap.String("name", identifier))
	return nil
}

// SplitStatements splits a script on semicolons, dropping "--" comment lines
// and blank statements. PL/SQL blocks are not supported.
func SplitStatements(script string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}

	var stmts []string
	for _, part := range strings.Split(cleaned.String(), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
