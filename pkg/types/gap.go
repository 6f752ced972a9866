package types

// GapType classifies the mismatch between code and documentation.
type GapType string

const (
	GapMissingDocumentation    GapType = "missing_documentation"
	GapOutdatedDocumentation   GapType = "outdated_documentation"
	GapMissingImplementation   GapType = "missing_implementation"
	GapInaccurateDocumentation GapType = "inaccurate_documentation"
)

// Severity ranks how urgently a gap needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityRank orders severities for report sorting. Unknown severities
// sort with low.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns the sort position of s: critical first, low last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return severityRank[SeverityLow]
}

// SeverityOrder lists all severities in report order.
var SeverityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Gap is a single detected mismatch between code and its documentation.
// Produced only by the model; the core never fabricates gaps. The JSON
// tags match the model's response contract.
type Gap struct {
	Type            GapType  `json:"type"`
	Severity        Severity `json:"severity"`
	File            string   `json:"file"`
	Description     string   `json:"description"`
	SuggestedChange string   `json:"suggested_change"`
}
