package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/pipeline"
)

// Test Plan for the run store:
// - Open creates the database, parent directory, and schema
// - WriteRun stores a bundle transactionally and ListRuns sees it
// - Components come back with their aggregate geometry and filters apply
// - LatestRun resolves the newest run for a source path, nil when absent
// - Processing errors and quality issues are stored per run

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "girder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleBundle(runID string) *pipeline.Bundle {
	return &pipeline.Bundle{
		RunID: runID,
		ProcessedData: pipeline.ProcessedData{
			Metadata: pipeline.Metadata{
				DrawingVersion:      "AC1027",
				PreprocessorVersion: pipeline.PreprocessorVersion,
				OriginalFilename:    "plan.dxf",
				OriginalUnitsCode:   4,
				ProcessedUnits:      "meters",
				UnitFactor:          0.001,
			},
			BridgeComponents: []bridge.BridgeComponent{
				{
					ID:       "A1",
					Type:     bridge.TypeGirder,
					Name:     "girder_A1",
					Layer:    "BEAMS",
					Material: &bridge.Material{Name: "steel", Grade: "S355"},
					Geometry: []bridge.GeometryInfo{{
						PrimitiveType: bridge.PrimitiveLine,
						Coordinates:   []bridge.Point{{X: 0}, {X: 10}},
						Length:        bridge.Float(10.0),
					}},
					Connections: []string{"A2"},
				},
				{
					ID:       "A2",
					Type:     bridge.TypeColumn,
					Name:     "column_A2",
					Layer:    "COLUMNS",
					Material: bridge.UnknownMaterial(),
					Geometry: []bridge.GeometryInfo{{
						PrimitiveType: bridge.PrimitiveLine,
						Coordinates:   []bridge.Point{{X: 10}, {X: 10, Y: -8}},
						Length:        bridge.Float(8.0),
					}},
					Connections: []string{"A1"},
				},
			},
			ProcessingInfo: pipeline.ProcessingInfo{
				Status:       pipeline.StatusCompletedWithIssues,
				TimestampUTC: "2026-08-25T10:00:00Z",
			},
		},
		QualityReport: bridge.QualityReport{
			OverallScore: 99.0,
			Issues: []bridge.QualityIssue{{
				Code:        "DQ-COMP-002",
				Severity:    bridge.SeverityLow,
				Message:     "component A2 has no identified material",
				ComponentID: "A2",
				Deduction:   1.0,
			}},
		},
		ProcessingErrors: []bridge.ProcessingError{{
			Type:        bridge.ErrTypeDataWarning,
			Message:     "component A2 has no material; defaulted",
			ComponentID: "A2",
		}},
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)

	version, err := GetSchemaVersion(st.DB())
	require.NoError(t, err)
	assert.Equal(t, "1.0", version)
}

func TestWriteRun_Roundtrip(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)

	runID, err := NewRunWriter(st.DB()).WriteRun(sampleBundle("run-1"), "drawings/plan.dxf")
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)

	runs, err := NewReader(st.DB()).ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "drawings/plan.dxf", run.SourcePath)
	assert.Equal(t, "plan.dxf", run.OriginalFilename)
	assert.Equal(t, pipeline.StatusCompletedWithIssues, run.Status)
	assert.Equal(t, 99.0, run.OverallScore)
	assert.Equal(t, 2, run.ComponentCount)
	assert.Equal(t, 0, run.ParserErrorCount)
	assert.Equal(t, 1, run.ProcessingErrorCount)
}

func TestReader_ComponentsAndFilters(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	_, err := NewRunWriter(st.DB()).WriteRun(sampleBundle("run-1"), "plan.dxf")
	require.NoError(t, err)

	reader := NewReader(st.DB())

	all, err := reader.Components("run-1", "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A1", all[0].ComponentID)
	assert.Equal(t, "girder", all[0].ComponentType)
	assert.Equal(t, "steel", all[0].MaterialName)
	assert.Equal(t, 1, all[0].GeometryCount)
	assert.Equal(t, 10.0, all[0].TotalLength)

	girders, err := reader.Components("run-1", "girder", "")
	require.NoError(t, err)
	require.Len(t, girders, 1)
	assert.Equal(t, "A1", girders[0].ComponentID)

	columns, err := reader.Components("run-1", "", "COLUMNS")
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "A2", columns[0].ComponentID)

	none, err := reader.Components("run-1", "pier", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReader_LatestRun(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	writer := NewRunWriter(st.DB())
	_, err := writer.WriteRun(sampleBundle("run-1"), "plan.dxf")
	require.NoError(t, err)

	reader := NewReader(st.DB())

	run, err := reader.LatestRun("plan.dxf")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "run-1", run.ID)

	missing, err := reader.LatestRun("other.dxf")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWriteRun_StoresIssuesAndErrors(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	_, err := NewRunWriter(st.DB()).WriteRun(sampleBundle("run-1"), "plan.dxf")
	require.NoError(t, err)

	var issueCount int
	require.NoError(t, st.DB().QueryRow(
		"SELECT COUNT(*) FROM quality_issues WHERE run_id = ?", "run-1").Scan(&issueCount))
	assert.Equal(t, 1, issueCount)

	var errType string
	require.NoError(t, st.DB().QueryRow(
		"SELECT error_type FROM processing_errors WHERE run_id = ? AND seq = 0", "run-1").Scan(&errType))
	assert.Equal(t, bridge.ErrTypeDataWarning, errType)
}
