// Package report synthesizes per-chunk analysis results into one
// prioritized report and renders it as Markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/docgap/pkg/types"
)

// Synthesize combines per-chunk results into one prioritized report.
// Error records contribute nothing; gaps from structured results are
// stably sorted by severity, critical first. The files-analyzed set comes
// from the collaborator payloads, deduplicated and sorted.
func Synthesize(results []*types.AnalysisResult) *types.Report {
	var gaps []types.Gap
	fileSet := make(map[string]struct{})

	for _, r := range results {
		if r == nil || r.Failed() {
			continue
		}
		for _, f := range r.FilesAnalyzed {
			fileSet[f] = struct{}{}
		}
		gaps = append(gaps, r.Gaps...)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Severity.Rank() < gaps[j].Severity.Rank()
	})

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)

	criticalCount, highCount := 0, 0
	for _, g := range gaps {
		switch g.Severity {
		case types.SeverityCritical:
			criticalCount++
		case types.SeverityHigh:
			highCount++
		}
	}

	summary := fmt.Sprintf("Analyzed %d files and found %d gaps. ", len(files), len(gaps))
	summary += fmt.Sprintf("Priority: %d critical and %d high-severity issues require immediate attention.",
		criticalCount, highCount)

	return &types.Report{
		Summary:       summary,
		Gaps:          gaps,
		FilesAnalyzed: files,
	}
}

// RenderMarkdown formats the report as the final Markdown document:
// a summary section followed by severity-grouped gap listings, or the
// No Gaps Found section when the gap list is empty. Output is
// byte-deterministic for identical input.
func RenderMarkdown(r *types.Report) string {
	var b strings.Builder

	b.WriteString("# Code-Documentation Gap Analysis Report\n\n")
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", r.Summary)

	if len(r.Gaps) == 0 {
		b.WriteString("## ✅ No Gaps Found\n\n")
		b.WriteString("Congratulations! The analysis did not find any significant gaps between the code and documentation.\n\n")
		return b.String()
	}

	b.WriteString("## Identified Gaps\n\n")

	bySeverity := make(map[types.Severity][]types.Gap)
	for _, gap := range r.Gaps {
		// Rank folds unknown severities into low.
		sev := types.SeverityOrder[gap.Severity.Rank()]
		bySeverity[sev] = append(bySeverity[sev], gap)
	}

	for _, sev := range types.SeverityOrder {
		gaps := bySeverity[sev]
		if len(gaps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s Severity\n\n", titleCase(string(sev)))
		for _, gap := range gaps {
			fmt.Fprintf(&b, "**File:** `%s`\n\n", orNA(gap.File))
			fmt.Fprintf(&b, "**Type:** %s\n\n", orNA(string(gap.Type)))
			fmt.Fprintf(&b, "**Description:** %s\n\n", orDefault(gap.Description, "No description"))
			fmt.Fprintf(&b, "**Suggested Change:** %s\n\n", orDefault(gap.SuggestedChange, "No suggestion"))
			b.WriteString("---\n\n")
		}
	}

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNA(s string) string {
	return orDefault(s, "N/A")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
