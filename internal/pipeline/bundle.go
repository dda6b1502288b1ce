package pipeline

import (
	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/dxf"
)

// PreprocessorVersion is stamped into every bundle's metadata.
const PreprocessorVersion = "0.4.0"

// Run completion statuses.
const (
	StatusCompleted           = "completed"
	StatusCompletedWithIssues = "completed_with_issues"
)

// Metadata describes the processed drawing and the unit rewrite applied to
// it. The unit fields are required for audit.
type Metadata struct {
	DrawingVersion      string  `json:"drawing_version,omitempty"`
	Encoding            string  `json:"encoding,omitempty"`
	PreprocessorVersion string  `json:"preprocessor_version"`
	OriginalFilename    string  `json:"original_filename"`
	OriginalUnitsCode   int     `json:"original_dxf_units_code"`
	ProcessedUnits      string  `json:"processed_units"`
	UnitFactor          float64 `json:"unit_conversion_factor_to_meters"`
}

// ProcessingInfo records the run outcome.
type ProcessingInfo struct {
	Status       string `json:"status"`
	TimestampUTC string `json:"timestamp_utc"`
}

// ProcessedData is the normalized drawing content.
type ProcessedData struct {
	Metadata         Metadata                 `json:"metadata"`
	BridgeComponents []bridge.BridgeComponent `json:"bridge_components"`
	ProcessingInfo   ProcessingInfo           `json:"processing_info"`
}

// Bundle is the complete output of one pipeline run. Callers always receive
// either an early fatal parse failure or a complete, well-formed bundle,
// possibly low-scoring but never partial.
type Bundle struct {
	RunID              string                   `json:"run_id"`
	ProcessedData      ProcessedData            `json:"processed_data"`
	QualityReport      bridge.QualityReport     `json:"quality_report"`
	ProcessingErrors   []bridge.ProcessingError `json:"processing_errors"`
	SourceParserErrors []dxf.ParseError         `json:"source_parser_errors"`
}
