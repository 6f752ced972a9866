// Package analyzer sends chunks to an Azure OpenAI deployment for gap
// detection and parses the structured JSON responses.
//
// The Analyzer interface never returns a Go error: any transport failure,
// malformed response body, or response missing the gaps key is converted
// into an error-tagged AnalysisResult so a run continues with its
// remaining chunks. No retries are performed; each failure is final for
// its chunk within a run.
package analyzer
