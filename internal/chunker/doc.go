// Package chunker packs repository files into token-bounded chunks for
// model analysis.
//
// # Packing
//
// BuildChunks walks one semantic group's file paths in order, resolves
// each against the code repository first and the docs repository second,
// and greedily accumulates whole files into a chunk until the next file
// would push the framed token total past the budget:
//
//	c := chunker.New(counter, 100000)
//	chunks := c.BuildChunks(group, codeRoot, docsRoot)
//
// Every file is counted under the same framing the analyzer sends to the
// model, "File: <path>\n\n<content>", so packed totals match request
// sizes.
//
// # Splitting
//
// A file whose framed count alone exceeds the budget never enters the
// accumulator. It is reduced recursively instead:
//
//   - Python sources split along top-level def/class boundaries, one
//     chunk per definition, with the display path suffixed by the
//     definition's label, e.g. "svc/api.py (def handler)".
//   - A definition still over budget, any file that fails to parse, and
//     any non-Python file fall back to line accumulation over the lines
//     in scope.
//   - A single line that alone exceeds the budget is truncated to a
//     quarter of the budget (a byte-count proxy, not an exact token
//     measure) and emitted as a "(truncated)" chunk.
//
// Both splitting paths share one line-unit primitive, so every produced
// chunk except the truncated single-line case satisfies
// tokens <= budget.
package chunker
