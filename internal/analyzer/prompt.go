package analyzer

import (
	"fmt"
	"strings"

	"github.com/dshills/docgap/pkg/types"
)

// BuildPrompt assembles the analysis prompt for one chunk's files.
func BuildPrompt(files []types.FileUnit) string {
	var filesText strings.Builder
	for _, f := range files {
		fmt.Fprintf(&filesText, "File: %s (%s)\n", f.Path, f.Kind)
		filesText.WriteString("```\n")
		filesText.WriteString(f.Content)
		filesText.WriteString("\n```\n\n")
	}

	return fmt.Sprintf(`
Analyze the provided code and documentation files to identify gaps between them.

A "gap" is any of the following:
- **missing_documentation**: Code exists but has no corresponding documentation.
- **outdated_documentation**: Documentation exists but does not accurately reflect the current code implementation.
- **missing_implementation**: Documentation describes a feature, function, or API that is not present in the code.
- **inaccurate_documentation**: Documentation is misleading or incorrect about the code's behavior.

Files to analyze:
%s

Provide your analysis in the following JSON format:
{
  "summary": "Brief summary of the overall gap analysis for this chunk.",
  "gaps": [
    {
      "type": "missing_documentation|outdated_documentation|missing_implementation|inaccurate_documentation",
      "severity": "low|medium|high|critical",
      "file": "path/to/related/file",
      "description": "Detailed description of the gap, citing specific examples if possible.",
      "suggested_change": "A clear, actionable suggestion to fix the gap."
    }
  ]
}
`, filesText.String())
}
