package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/dxf"
)

// Test Plan for the orchestrator:
// - End to end: a millimeter drawing is parsed, normalized to meters, and
//   scored; a missing material costs exactly 1.0 points versus a complete
//   drawing
// - The parsed input is never mutated by processing
// - nil input and missing collections produce InitializationError entries
//   and a complete bundle, never a panic
// - The completion status reflects whether anything was logged
// - Connection inference is off by default and links touching components
//   when enabled

// mmDrawing builds a millimeter ASCII drawing with two 10 m girder lines.
// columnColor colors the COLUMNS line: 3 maps to concrete, 256 (ByLayer)
// maps to nothing and forces the material default.
func mmDrawing(t *testing.T, columnColor string) *dxf.ParseResult {
	t.Helper()

	content := strings.Join([]string{
		"0", "SECTION",
		"2", "HEADER",
		"9", "$ACADVER",
		"1", "AC1027",
		"9", "$INSUNITS",
		"70", "4",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "A1",
		"8", "BEAMS",
		"62", "1",
		"10", "0.0",
		"20", "0.0",
		"11", "10000.0",
		"21", "0.0",
		"0", "LINE",
		"5", "A2",
		"8", "COLUMNS",
		"62", columnColor,
		"10", "0.0",
		"20", "0.0",
		"11", "0.0",
		"21", "10000.0",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n") + "\n"

	res, err := dxf.New(nil).ParseReader(strings.NewReader(content), "plan.dxf")
	require.NoError(t, err)
	return res
}

func TestProcess_EndToEnd(t *testing.T) {
	t.Parallel()

	parsed := mmDrawing(t, "3")
	bundle := NewOrchestrator(Options{}).Process(parsed)

	require.NotEmpty(t, bundle.RunID)
	meta := bundle.ProcessedData.Metadata
	assert.Equal(t, "AC1027", meta.DrawingVersion)
	assert.Equal(t, "plan.dxf", meta.OriginalFilename)
	assert.Equal(t, 4, meta.OriginalUnitsCode)
	assert.Equal(t, "meters", meta.ProcessedUnits)
	assert.Equal(t, 0.001, meta.UnitFactor)
	assert.Equal(t, PreprocessorVersion, meta.PreprocessorVersion)

	comps := bundle.ProcessedData.BridgeComponents
	require.Len(t, comps, 2)
	assert.Equal(t, bridge.TypeBeam, comps[0].Type)
	assert.Equal(t, bridge.TypeColumn, comps[1].Type)

	// 10000 mm normalized to 10 m, with the length recomputed.
	g := comps[0].Geometry[0]
	assert.InDelta(t, 10.0, g.Coordinates[1].X, 1e-9)
	require.NotNil(t, g.Length)
	assert.InDelta(t, 10.0, *g.Length, 1e-9)

	assert.Equal(t, 100.0, bundle.QualityReport.OverallScore)
	assert.Equal(t, StatusCompleted, bundle.ProcessedData.ProcessingInfo.Status)
	assert.NotEmpty(t, bundle.ProcessedData.ProcessingInfo.TimestampUTC)
}

func TestProcess_MissingMaterialCostsOnePoint(t *testing.T) {
	t.Parallel()

	complete := NewOrchestrator(Options{}).Process(mmDrawing(t, "3"))
	missing := NewOrchestrator(Options{}).Process(mmDrawing(t, "256"))

	assert.Equal(t, 100.0, complete.QualityReport.OverallScore)
	assert.Equal(t, 99.0, missing.QualityReport.OverallScore)

	// The defaulted material shows up once in the issues and once in the log.
	require.Len(t, missing.QualityReport.Issues, 1)
	assert.Equal(t, "DQ-COMP-002", missing.QualityReport.Issues[0].Code)
	assert.Equal(t, 1, countType(missing.ProcessingErrors, bridge.ErrTypeDataWarning))
	assert.Equal(t, StatusCompletedWithIssues, missing.ProcessedData.ProcessingInfo.Status)
}

func TestProcess_InputNotMutated(t *testing.T) {
	t.Parallel()

	parsed := mmDrawing(t, "3")
	before := parsed.Components[0].Geometry[0].Coordinates[1].X

	NewOrchestrator(Options{}).Process(parsed)

	// Still in millimeters: processing worked on a deep copy.
	assert.Equal(t, before, parsed.Components[0].Geometry[0].Coordinates[1].X)
	assert.Equal(t, 10000.0, parsed.Components[0].Geometry[0].Coordinates[1].X)
}

func TestProcess_NilInput(t *testing.T) {
	t.Parallel()

	bundle := NewOrchestrator(Options{}).Process(nil)

	require.NotNil(t, bundle)
	assert.NotEmpty(t, bundle.RunID)
	assert.Empty(t, bundle.ProcessedData.BridgeComponents)
	assert.Equal(t, StatusCompletedWithIssues, bundle.ProcessedData.ProcessingInfo.Status)
	// nil input, missing component collection, missing filename.
	assert.Equal(t, 3, countType(bundle.ProcessingErrors, bridge.ErrTypeInitialization))
}

func TestProcess_MissingFilenameFlagged(t *testing.T) {
	t.Parallel()

	parsed := &dxf.ParseResult{
		Components: []bridge.BridgeComponent{},
	}
	bundle := NewOrchestrator(Options{}).Process(parsed)

	assert.Equal(t, 1, countType(bundle.ProcessingErrors, bridge.ErrTypeInitialization))
}

func TestProcess_ConnectionsOffByDefault(t *testing.T) {
	t.Parallel()

	bundle := NewOrchestrator(Options{}).Process(touchingLines(t))
	for _, comp := range bundle.ProcessedData.BridgeComponents {
		assert.Empty(t, comp.Connections)
	}
}

func TestProcess_ConnectionInferenceEnabled(t *testing.T) {
	t.Parallel()

	bundle := NewOrchestrator(Options{InferConnections: true}).Process(touchingLines(t))

	comps := bundle.ProcessedData.BridgeComponents
	require.Len(t, comps, 2)
	assert.Equal(t, []string{"A2"}, comps[0].Connections)
	assert.Equal(t, []string{"A1"}, comps[1].Connections)
}

// touchingLines parses a meter drawing whose two lines share an endpoint.
func touchingLines(t *testing.T) *dxf.ParseResult {
	t.Helper()

	content := strings.Join([]string{
		"0", "SECTION",
		"2", "HEADER",
		"9", "$INSUNITS",
		"70", "6",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "A1",
		"8", "STEEL_GIRDER",
		"10", "0.0",
		"20", "0.0",
		"11", "10.0",
		"21", "0.0",
		"0", "LINE",
		"5", "A2",
		"8", "STEEL_COLUMN",
		"10", "10.0",
		"20", "0.0",
		"11", "10.0",
		"21", "-8.0",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n") + "\n"

	res, err := dxf.New(nil).ParseReader(strings.NewReader(content), "touching.dxf")
	require.NoError(t, err)
	return res
}

func countType(entries []bridge.ProcessingError, errType string) int {
	n := 0
	for _, e := range entries {
		if e.Type == errType {
			n++
		}
	}
	return n
}
