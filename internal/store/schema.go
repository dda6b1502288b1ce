package store

import (
	"database/sql"
	"fmt"
	"time"
)

const schemaVersion = "1.0"

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	drawing_version TEXT,
	units_code INTEGER NOT NULL,
	processed_units TEXT NOT NULL,
	unit_factor REAL NOT NULL,
	status TEXT NOT NULL,
	overall_score REAL NOT NULL,
	component_count INTEGER NOT NULL,
	parser_error_count INTEGER NOT NULL,
	processing_error_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`

const createComponentsTable = `
CREATE TABLE IF NOT EXISTS components (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	component_id TEXT NOT NULL,
	component_type TEXT NOT NULL,
	name TEXT NOT NULL,
	layer TEXT NOT NULL,
	material_name TEXT NOT NULL,
	material_grade TEXT,
	connections TEXT NOT NULL DEFAULT '[]'
)`

const createGeometriesTable = `
CREATE TABLE IF NOT EXISTS geometries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	component_row_id INTEGER NOT NULL REFERENCES components(id) ON DELETE CASCADE,
	primitive_type TEXT NOT NULL,
	length REAL,
	area REAL,
	volume REAL,
	coordinates TEXT NOT NULL DEFAULT '[]'
)`

const createProcessingErrorsTable = `
CREATE TABLE IF NOT EXISTS processing_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	error_type TEXT NOT NULL,
	message TEXT NOT NULL,
	component_id TEXT
)`

const createQualityIssuesTable = `
CREATE TABLE IF NOT EXISTS quality_issues (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	code TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	component_id TEXT,
	deduction REAL NOT NULL
)`

const createStoreMetadataTable = `
CREATE TABLE IF NOT EXISTS store_metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// CreateSchema creates all tables and indexes. Uses a transaction for
// atomicity - all schema creation succeeds or fails together.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Enable foreign keys (must be set for each connection)
	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"components", createComponentsTable},
		{"geometries", createGeometriesTable},
		{"processing_errors", createProcessingErrorsTable},
		{"quality_issues", createQualityIssuesTable},
		{"store_metadata", createStoreMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_components_run ON components(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_components_type ON components(component_type)",
		"CREATE INDEX IF NOT EXISTS idx_components_layer ON components(layer)",
		"CREATE INDEX IF NOT EXISTS idx_geometries_component ON geometries(component_row_id)",
		"CREATE INDEX IF NOT EXISTS idx_errors_run ON processing_errors(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_issues_run ON quality_issues(run_id)",
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO store_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)",
		schemaVersion, now); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var version string
	err := db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
