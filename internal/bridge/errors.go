package bridge

// Processing error types. The quality scorer infers severity from the type
// string: "Error"/"Critical" → High, "Warning" → Low, anything else Medium.
const (
	ErrTypeEntityExtraction    = "EntityExtractionError"
	ErrTypeDataCleaning        = "DataCleaning"
	ErrTypeDataWarning         = "DataWarning"
	ErrTypeUnitWarning         = "UnitConversionWarning"
	ErrTypeUnitError           = "UnitConversionError"
	ErrTypeGeometryRecalc      = "GeometryRecalculation"
	ErrTypeMissingGeometryData = "MissingGeometryData"
	ErrTypeGeometryCalculation = "GeometryCalculationError"
	ErrTypeReasonableness      = "ReasonablenessWarning"
	ErrTypeInitialization      = "InitializationError"
)

// ProcessingError is one entry in the shared, append-only, ordered error log.
// The log is the primary partial-failure communication channel across the
// whole pipeline run.
type ProcessingError struct {
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	ComponentID string                 `json:"component_id,omitempty"`
}

// ErrorLog accumulates processing errors in order. One log instance belongs
// to exactly one pipeline run; it is never shared across concurrent runs.
type ErrorLog struct {
	entries []ProcessingError
}

// Add appends an entry to the log.
func (l *ErrorLog) Add(errType, message string) {
	l.entries = append(l.entries, ProcessingError{Type: errType, Message: message})
}

// AddDetailed appends an entry carrying a component ID and detail map.
func (l *ErrorLog) AddDetailed(errType, message, componentID string, details map[string]interface{}) {
	l.entries = append(l.entries, ProcessingError{
		Type:        errType,
		Message:     message,
		Details:     details,
		ComponentID: componentID,
	})
}

// Entries returns the accumulated entries in insertion order.
func (l *ErrorLog) Entries() []ProcessingError {
	return l.entries
}

// Len returns the number of accumulated entries.
func (l *ErrorLog) Len() int {
	return len(l.entries)
}

// CountByType returns a histogram of entry types.
func (l *ErrorLog) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, e := range l.entries {
		counts[e.Type]++
	}
	return counts
}
