package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/girderlab/girder/internal/pipeline"
)

// RunWriter persists complete pipeline bundles. All rows of one run are
// written in a single transaction: a run is either fully stored or absent.
type RunWriter struct {
	db *sql.DB
}

// NewRunWriter creates a writer over the store's database.
func NewRunWriter(db *sql.DB) *RunWriter {
	return &RunWriter{db: db}
}

// WriteRun stores one bundle and returns its run ID.
func (w *RunWriter) WriteRun(bundle *pipeline.Bundle, sourcePath string) (string, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta := bundle.ProcessedData.Metadata
	_, err = tx.Exec(`
		INSERT INTO runs (id, source_path, original_filename, drawing_version,
			units_code, processed_units, unit_factor, status, overall_score,
			component_count, parser_error_count, processing_error_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bundle.RunID,
		sourcePath,
		meta.OriginalFilename,
		meta.DrawingVersion,
		meta.OriginalUnitsCode,
		meta.ProcessedUnits,
		meta.UnitFactor,
		bundle.ProcessedData.ProcessingInfo.Status,
		bundle.QualityReport.OverallScore,
		len(bundle.ProcessedData.BridgeComponents),
		len(bundle.SourceParserErrors),
		len(bundle.ProcessingErrors),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range bundle.ProcessedData.BridgeComponents {
		comp := &bundle.ProcessedData.BridgeComponents[i]

		connections, err := json.Marshal(comp.Connections)
		if err != nil {
			return "", fmt.Errorf("failed to encode connections for %s: %w", comp.ID, err)
		}
		materialName := ""
		materialGrade := ""
		if comp.Material != nil {
			materialName = comp.Material.Name
			materialGrade = comp.Material.Grade
		}

		res, err := tx.Exec(`
			INSERT INTO components (run_id, component_id, component_type, name,
				layer, material_name, material_grade, connections)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			bundle.RunID, comp.ID, string(comp.Type), comp.Name,
			comp.Layer, materialName, materialGrade, string(connections),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert component %s: %w", comp.ID, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("failed to resolve component row id: %w", err)
		}

		for j := range comp.Geometry {
			g := &comp.Geometry[j]
			coords, err := json.Marshal(g.Coordinates)
			if err != nil {
				return "", fmt.Errorf("failed to encode coordinates for %s: %w", comp.ID, err)
			}
			_, err = tx.Exec(`
				INSERT INTO geometries (component_row_id, primitive_type,
					length, area, volume, coordinates)
				VALUES (?, ?, ?, ?, ?, ?)`,
				rowID, string(g.PrimitiveType), g.Length, g.Area, g.Volume, string(coords),
			)
			if err != nil {
				return "", fmt.Errorf("failed to insert geometry for %s: %w", comp.ID, err)
			}
		}
	}

	for i, pe := range bundle.ProcessingErrors {
		_, err = tx.Exec(`
			INSERT INTO processing_errors (run_id, seq, error_type, message, component_id)
			VALUES (?, ?, ?, ?, ?)`,
			bundle.RunID, i, pe.Type, pe.Message, pe.ComponentID,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert processing error: %w", err)
		}
	}

	for _, issue := range bundle.QualityReport.Issues {
		_, err = tx.Exec(`
			INSERT INTO quality_issues (run_id, code, severity, message, component_id, deduction)
			VALUES (?, ?, ?, ?, ?, ?)`,
			bundle.RunID, issue.Code, string(issue.Severity), issue.Message,
			issue.ComponentID, issue.Deduction,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert quality issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return bundle.RunID, nil
}
