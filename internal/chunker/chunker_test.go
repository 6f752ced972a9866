package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docgap/pkg/types"
)

// lineCounter counts one token per line, making budgets easy to reason
// about in tests without fetching a real BPE vocabulary.
type lineCounter struct{}

func (lineCounter) Count(text string) int { return strings.Count(text, "\n") + 1 }

func (lineCounter) CountFramed(path, content string) int {
	return strings.Count(content, "\n") + 1
}

// byteCounter counts one token per byte, for exercising truncation.
type byteCounter struct{}

func (byteCounter) Count(text string) int                { return len(text) }
func (byteCounter) CountFramed(path, content string) int { return len(content) }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestBuildChunks_SmallFilesShareOneChunk(t *testing.T) {
	codeRoot := t.TempDir()
	docsRoot := t.TempDir()
	writeFile(t, codeRoot, "pkg/a.py", "x = 1\ny = 2\nz = 3\na = 4\nb = 5\n")
	writeFile(t, docsRoot, "README.md", "# Title\n\nSome words.\n")

	c := New(lineCounter{}, 100)
	chunks := c.BuildChunks([]string{"pkg/a.py", "README.md"}, codeRoot, docsRoot)

	require.Len(t, chunks, 1)
	require.Len(t, chunks[0].Files, 2)
	assert.Equal(t, "pkg/a.py", chunks[0].Files[0].Path)
	assert.Equal(t, types.OriginCode, chunks[0].Files[0].Kind)
	assert.Equal(t, "README.md", chunks[0].Files[1].Path)
	assert.Equal(t, types.OriginDoc, chunks[0].Files[1].Kind)
}

func TestBuildChunks_OverflowStartsNewChunk(t *testing.T) {
	codeRoot := t.TempDir()
	writeFile(t, codeRoot, "a.py", "l1\nl2\nl3\n") // 4 tokens
	writeFile(t, codeRoot, "b.py", "l1\nl2\nl3\n") // 4 tokens

	c := New(lineCounter{}, 6)
	chunks := c.BuildChunks([]string{"a.py", "b.py"}, codeRoot, "")

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a.py"}, chunks[0].Paths())
	assert.Equal(t, []string{"b.py"}, chunks[1].Paths())
	for _, ch := range chunks {
		assert.LessOrEqual(t, ch.Tokens, 6)
	}
}

func TestBuildChunks_OversizedPythonSplitsByDefs(t *testing.T) {
	codeRoot := t.TempDir()
	src := "def alpha():\n    return 1\n\ndef beta():\n    return 2\n"
	writeFile(t, codeRoot, "big.py", src)

	// Whole file is 6 tokens, each def span is 2.
	c := New(lineCounter{}, 5)
	chunks := c.BuildChunks([]string{"big.py"}, codeRoot, "")

	require.Len(t, chunks, 2)
	assert.Equal(t, "big.py (def alpha)", chunks[0].Files[0].Path)
	assert.Equal(t, "def alpha():\n    return 1", chunks[0].Files[0].Content)
	assert.Equal(t, "big.py (def beta)", chunks[1].Files[0].Path)
	assert.Equal(t, "def beta():\n    return 2", chunks[1].Files[0].Content)
	assert.Equal(t, types.OriginCode, chunks[0].Files[0].Kind)
}

func TestBuildChunks_OversizedDocFallsBackToLines(t *testing.T) {
	docsRoot := t.TempDir()
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "line")
	}
	writeFile(t, docsRoot, "guide.md", strings.Join(lines, "\n"))

	// 10 tokens; each line costs 2 under lineCounter, so 2 lines per chunk.
	c := New(lineCounter{}, 4)
	chunks := c.BuildChunks([]string{"guide.md"}, "", docsRoot)

	require.Len(t, chunks, 5)
	for _, ch := range chunks {
		assert.Equal(t, "guide.md", ch.Files[0].Path)
		assert.Equal(t, types.OriginDoc, ch.Files[0].Kind)
		assert.Equal(t, "line\nline", ch.Files[0].Content)
	}
}

func TestBuildChunks_LineSplitRoundTrip(t *testing.T) {
	docsRoot := t.TempDir()
	var lines []string
	for i := 0; i < 23; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	content := strings.Join(lines, "\n")
	writeFile(t, docsRoot, "big.md", content)

	c := New(lineCounter{}, 6)
	chunks := c.BuildChunks([]string{"big.md"}, "", docsRoot)

	require.Greater(t, len(chunks), 1)
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, ch.Files[0].Content)
	}
	assert.Equal(t, content, strings.Join(parts, "\n"))
}

func TestBuildChunks_OversizedLineTruncated(t *testing.T) {
	codeRoot := t.TempDir()
	long := strings.Repeat("a", 100)
	writeFile(t, codeRoot, "blob.txt", long)

	c := New(byteCounter{}, 8)
	chunks := c.BuildChunks([]string{"blob.txt"}, codeRoot, "")

	require.Len(t, chunks, 1)
	assert.Equal(t, "blob.txt (truncated)", chunks[0].Files[0].Path)
	assert.Equal(t, strings.Repeat("a", 2), chunks[0].Files[0].Content)
}

func TestBuildChunks_SkipsMissingAndBinary(t *testing.T) {
	codeRoot := t.TempDir()
	writeFile(t, codeRoot, "ok.py", "x = 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(codeRoot, "bin.dat"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))

	c := New(lineCounter{}, 100)
	chunks := c.BuildChunks([]string{"missing.py", "bin.dat", "ok.py"}, codeRoot, "")

	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"ok.py"}, chunks[0].Paths())
}

func TestBuildChunks_SplitterOutputNotMergedWithAccumulator(t *testing.T) {
	codeRoot := t.TempDir()
	writeFile(t, codeRoot, "small.md", "one\n")                         // 2 tokens
	writeFile(t, codeRoot, "huge.md", strings.Repeat("line\n", 10))     // 11 tokens
	writeFile(t, codeRoot, "tail.md", "one\n")                          // 2 tokens

	c := New(lineCounter{}, 6)
	chunks := c.BuildChunks([]string{"small.md", "huge.md", "tail.md"}, codeRoot, "")

	// small.md flushes alone, huge.md splits into its own chunks, tail.md
	// starts a fresh accumulator.
	require.GreaterOrEqual(t, len(chunks), 3)
	assert.Equal(t, []string{"small.md"}, chunks[0].Paths())
	assert.Equal(t, []string{"tail.md"}, chunks[len(chunks)-1].Paths())
	for _, ch := range chunks[1 : len(chunks)-1] {
		assert.Equal(t, "huge.md", ch.Files[0].Path)
	}
}

func TestBuildChunks_CodeRootWinsOverDocsRoot(t *testing.T) {
	codeRoot := t.TempDir()
	docsRoot := t.TempDir()
	writeFile(t, codeRoot, "shared.md", "from code\n")
	writeFile(t, docsRoot, "shared.md", "from docs\n")

	c := New(lineCounter{}, 100)
	chunks := c.BuildChunks([]string{"shared.md"}, codeRoot, docsRoot)

	require.Len(t, chunks, 1)
	assert.Equal(t, types.OriginCode, chunks[0].Files[0].Kind)
	assert.Equal(t, "from code\n", chunks[0].Files[0].Content)
}

func TestNew_NonPositiveBudgetUsesDefault(t *testing.T) {
	c := New(lineCounter{}, 0)
	assert.Equal(t, DefaultMaxTokens, c.MaxTokens())
}
