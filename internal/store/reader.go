package store

import (
	"database/sql"
	"fmt"
)

// RunSummary is one row of the runs listing.
type RunSummary struct {
	ID                   string  `json:"id"`
	SourcePath           string  `json:"source_path"`
	OriginalFilename     string  `json:"original_filename"`
	Status               string  `json:"status"`
	OverallScore         float64 `json:"overall_score"`
	ComponentCount       int     `json:"component_count"`
	ParserErrorCount     int     `json:"parser_error_count"`
	ProcessingErrorCount int     `json:"processing_error_count"`
	CreatedAt            string  `json:"created_at"`
}

// ComponentRow is one stored component with its aggregate geometry.
type ComponentRow struct {
	RunID         string  `json:"run_id"`
	ComponentID   string  `json:"component_id"`
	ComponentType string  `json:"component_type"`
	Name          string  `json:"name"`
	Layer         string  `json:"layer"`
	MaterialName  string  `json:"material_name"`
	MaterialGrade string  `json:"material_grade"`
	GeometryCount int     `json:"geometry_count"`
	TotalLength   float64 `json:"total_length"`
}

// Reader answers queries over stored runs.
type Reader struct {
	db *sql.DB
}

// NewReader creates a reader over the store's database.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// ListRuns returns stored runs, newest first.
func (r *Reader) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, source_path, original_filename, status, overall_score,
			component_count, parser_error_count, processing_error_count, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.SourcePath, &s.OriginalFilename, &s.Status,
			&s.OverallScore, &s.ComponentCount, &s.ParserErrorCount,
			&s.ProcessingErrorCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestRun returns the most recent run for a source path, or nil.
func (r *Reader) LatestRun(sourcePath string) (*RunSummary, error) {
	row := r.db.QueryRow(`
		SELECT id, source_path, original_filename, status, overall_score,
			component_count, parser_error_count, processing_error_count, created_at
		FROM runs WHERE source_path = ? ORDER BY created_at DESC LIMIT 1`, sourcePath)

	var s RunSummary
	err := row.Scan(&s.ID, &s.SourcePath, &s.OriginalFilename, &s.Status,
		&s.OverallScore, &s.ComponentCount, &s.ParserErrorCount,
		&s.ProcessingErrorCount, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}
	return &s, nil
}

// Components returns stored components for a run, optionally filtered by
// component type and/or layer. Empty filters match everything.
func (r *Reader) Components(runID, componentType, layer string) ([]ComponentRow, error) {
	query := `
		SELECT c.run_id, c.component_id, c.component_type, c.name, c.layer,
			c.material_name, c.material_grade,
			COUNT(g.id), COALESCE(SUM(g.length), 0)
		FROM components c
		LEFT JOIN geometries g ON g.component_row_id = c.id
		WHERE c.run_id = ?`
	args := []interface{}{runID}

	if componentType != "" {
		query += " AND c.component_type = ?"
		args = append(args, componentType)
	}
	if layer != "" {
		query += " AND c.layer = ?"
		args = append(args, layer)
	}
	query += " GROUP BY c.id ORDER BY c.component_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var out []ComponentRow
	for rows.Next() {
		var c ComponentRow
		if err := rows.Scan(&c.RunID, &c.ComponentID, &c.ComponentType, &c.Name,
			&c.Layer, &c.MaterialName, &c.MaterialGrade,
			&c.GeometryCount, &c.TotalLength); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
