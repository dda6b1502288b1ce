package bridge

// IssueSeverity grades a quality finding.
type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

// QualityIssue is one finding in the quality report. Findings are advisory;
// they never block the run.
type QualityIssue struct {
	Code        string        `json:"code"`
	Severity    IssueSeverity `json:"severity"`
	Message     string        `json:"message"`
	ComponentID string        `json:"component_id,omitempty"`
	Deduction   float64       `json:"deduction"`
}

// QualityReport summarizes aggregate confidence/cleanliness of one
// parsed-and-preprocessed drawing. Computed once at the end of a run from
// final component state plus the accumulated error logs.
type QualityReport struct {
	OverallScore float64                `json:"overall_score"`
	Issues       []QualityIssue         `json:"issues"`
	Suggestions  []string               `json:"suggestions"`
	Statistics   map[string]interface{} `json:"statistics"`
}
