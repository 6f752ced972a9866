package types

// AnalysisResult is the per-chunk outcome of one model invocation. Exactly
// one of the two shapes is populated: a structured response (Structured
// true, Summary and Gaps set) or an error record (Structured false, Err
// set, FilesAnalyzed listing the chunk's display paths).
type AnalysisResult struct {
	Summary       string   `json:"summary,omitempty"`
	Gaps          []Gap    `json:"gaps,omitempty"`
	Err           string   `json:"error,omitempty"`
	FilesAnalyzed []string `json:"files_analyzed,omitempty"`
	Structured    bool     `json:"structured"`
}

// Failed reports whether this result is an error record.
func (r *AnalysisResult) Failed() bool {
	return !r.Structured || r.Err != ""
}

// Report is the synthesized outcome of a full run, consumed by the
// Markdown renderer and the run-history store.
type Report struct {
	Summary       string   `json:"summary"`
	Gaps          []Gap    `json:"gaps"`
	FilesAnalyzed []string `json:"files_analyzed"`
}
