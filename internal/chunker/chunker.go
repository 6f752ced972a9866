package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/docgap/internal/parser"
	"github.com/dshills/docgap/pkg/types"
)

// DefaultMaxTokens is the per-request token budget, leaving headroom for
// prompt overhead and the response.
const DefaultMaxTokens = 100000

// TokenCounter is the counting dependency of the chunker. Satisfied by
// *tokenizer.Tokenizer; tests substitute cheap deterministic counters.
type TokenCounter interface {
	Count(text string) int
	CountFramed(path, content string) int
}

// Chunker packs files into token-bounded chunks. The budget is explicit
// configuration so tests can exercise the splitting paths with a small one.
type Chunker struct {
	counter   TokenCounter
	parser    *parser.Parser
	maxTokens int
}

// New creates a Chunker with the given token counter and budget.
// A non-positive budget falls back to DefaultMaxTokens.
func New(counter TokenCounter, maxTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Chunker{
		counter:   counter,
		parser:    parser.New(),
		maxTokens: maxTokens,
	}
}

// MaxTokens returns the configured per-request budget.
func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

// BuildChunks packs one group's files, in input order, into chunks whose
// framed token totals stay within the budget. Each path is resolved
// against the code root first, then the docs root; unresolvable paths are
// skipped, as are files that do not decode as UTF-8 text. A file that
// alone exceeds the budget is handed to the splitter, whose chunks are
// appended directly rather than folded into the in-progress accumulator.
func (c *Chunker) BuildChunks(paths []string, codeRoot, docsRoot string) []types.Chunk {
	var chunks []types.Chunk
	var current []types.FileUnit
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, types.Chunk{Files: current, Tokens: currentTokens})
			current, currentTokens = nil, 0
		}
	}

	for _, path := range paths {
		kind, fullPath, ok := resolve(path, codeRoot, docsRoot)
		if !ok {
			continue
		}

		content, err := readText(fullPath)
		if err != nil {
			// Binary or unreadable files are skipped without comment.
			continue
		}

		fileTokens := c.counter.CountFramed(path, content)

		if fileTokens > c.maxTokens {
			flush()
			chunks = c.splitFile(path, content, kind, chunks)
			continue
		}

		if currentTokens+fileTokens > c.maxTokens {
			flush()
		}

		current = append(current, types.FileUnit{Path: path, Content: content, Kind: kind})
		currentTokens += fileTokens
	}

	flush()
	return chunks
}

// resolve finds the repository backing path, preferring the code root.
func resolve(relPath, codeRoot, docsRoot string) (types.OriginKind, string, bool) {
	codePath := filepath.Join(codeRoot, filepath.FromSlash(relPath))
	if fileExists(codePath) {
		return types.OriginCode, codePath, true
	}
	docsPath := filepath.Join(docsRoot, filepath.FromSlash(relPath))
	if docsRoot != "" && fileExists(docsPath) {
		return types.OriginDoc, docsPath, true
	}
	return "", "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readText reads the file and rejects content that is not valid UTF-8.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, types.ErrBinaryFile)
	}
	return string(data), nil
}

// splitFile reduces one over-budget file. Python sources are split along
// top-level def/class boundaries; anything else, or a file that fails to
// parse, falls back to line accumulation over the whole content.
func (c *Chunker) splitFile(path, content string, kind types.OriginKind, chunks []types.Chunk) []types.Chunk {
	if kind == types.OriginCode && strings.HasSuffix(path, ".py") {
		mod, err := c.parser.Parse(content)
		if err == nil {
			return c.splitByDefs(path, content, kind, mod, chunks)
		}
	}
	return c.splitLines(unit{path: path, lines: splitKeepAll(content), kind: kind}, chunks)
}

// splitByDefs emits one chunk per top-level definition span, recursing
// into line splitting for spans that are themselves over budget.
func (c *Chunker) splitByDefs(path, content string, kind types.OriginKind, mod *parser.Module, chunks []types.Chunk) []types.Chunk {
	lines := splitKeepAll(content)

	defs := make([]parser.Def, len(mod.Defs))
	copy(defs, mod.Defs)
	sort.Slice(defs, func(i, j int) bool { return defs[i].StartLine < defs[j].StartLine })

	for _, def := range defs {
		start, end := def.StartLine, def.EndLine
		if end <= 0 || end > len(lines) {
			end = len(lines)
		}
		if start < 1 || start > end {
			continue
		}
		span := lines[start-1 : end]
		label := def.Label()
		display := fmt.Sprintf("%s (%s)", path, label)
		text := strings.Join(span, "\n")

		if c.counter.CountFramed(display, text) > c.maxTokens {
			chunks = c.splitLines(unit{path: path, label: label, lines: span, kind: kind}, chunks)
			continue
		}
		chunks = append(chunks, types.Chunk{
			Files:  []types.FileUnit{{Path: display, Content: text, Kind: kind}},
			Tokens: c.counter.CountFramed(display, text),
		})
	}
	return chunks
}

// unit is the one logical input of line splitting: a label (empty for
// whole files), the lines in scope, and the origin kind. The def/class
// path and the whole-file fallback share this primitive.
type unit struct {
	path  string
	label string
	lines []string
	kind  types.OriginKind
}

// display returns the unit's display path, label-suffixed when present.
func (u unit) display() string {
	if u.label == "" {
		return u.path
	}
	return fmt.Sprintf("%s (%s)", u.path, u.label)
}

// splitLines accumulates the unit's lines into budget-sized chunks,
// counting each line with its terminator. A single line that alone
// exceeds the budget is truncated to a quarter of the budget, used as a
// byte-count proxy rather than an exact token measure, and emitted
// immediately as a "(truncated)" chunk.
func (c *Chunker) splitLines(u unit, chunks []types.Chunk) []types.Chunk {
	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) > 0 {
			text := strings.Join(buf, "\n")
			chunks = append(chunks, types.Chunk{
				Files:  []types.FileUnit{{Path: u.display(), Content: text, Kind: u.kind}},
				Tokens: bufTokens,
			})
			buf, bufTokens = nil, 0
		}
	}

	for _, line := range u.lines {
		lineTokens := c.counter.Count(line + "\n")

		if bufTokens+lineTokens > c.maxTokens {
			if len(buf) > 0 {
				flush()
				buf = []string{line}
				bufTokens = lineTokens
				continue
			}
			truncated := line
			if len(truncated) > c.maxTokens/4 {
				truncated = truncated[:c.maxTokens/4]
			}
			display := fmt.Sprintf("%s (truncated)", u.path)
			chunks = append(chunks, types.Chunk{
				Files:  []types.FileUnit{{Path: display, Content: truncated, Kind: u.kind}},
				Tokens: c.counter.Count(truncated),
			})
			continue
		}

		buf = append(buf, line)
		bufTokens += lineTokens
	}

	flush()
	return chunks
}

// splitKeepAll splits on newlines keeping empty trailing lines, matching
// the line numbering the parser reports.
func splitKeepAll(content string) []string {
	return strings.Split(content, "\n")
}
