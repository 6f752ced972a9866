package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docgap/pkg/types"
)

func testChunk() types.Chunk {
	return types.Chunk{
		Files: []types.FileUnit{
			{Path: "app/main.py", Content: "x = 1", Kind: types.OriginCode},
			{Path: "README.md", Content: "# App", Kind: types.OriginDoc},
		},
		Tokens: 10,
	}
}

func discard(string, ...any) {}

func TestParseResponse_Success(t *testing.T) {
	body := `{
		"summary": "One gap found.",
		"gaps": [
			{
				"type": "missing_documentation",
				"severity": "high",
				"file": "app/main.py",
				"description": "No docs for main.",
				"suggested_change": "Document main."
			}
		],
		"files_analyzed": ["app/main.py"]
	}`

	res := ParseResponse(body, testChunk(), discard)

	assert.False(t, res.Failed())
	assert.Equal(t, "One gap found.", res.Summary)
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, types.GapMissingDocumentation, res.Gaps[0].Type)
	assert.Equal(t, types.SeverityHigh, res.Gaps[0].Severity)
	assert.Equal(t, []string{"app/main.py"}, res.FilesAnalyzed)
}

func TestParseResponse_EmptyGapsIsStructured(t *testing.T) {
	res := ParseResponse(`{"summary": "All good.", "gaps": []}`, testChunk(), discard)

	assert.False(t, res.Failed())
	assert.Empty(t, res.Gaps)
	// Absent files_analyzed falls back to the chunk's display paths.
	assert.Equal(t, []string{"app/main.py", "README.md"}, res.FilesAnalyzed)
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	res := ParseResponse("I could not produce JSON, sorry.", testChunk(), discard)

	assert.True(t, res.Failed())
	assert.Contains(t, res.Err, "malformed response")
	assert.Equal(t, []string{"app/main.py", "README.md"}, res.FilesAnalyzed)
}

func TestParseResponse_MissingGapsKey(t *testing.T) {
	res := ParseResponse(`{"summary": "Looks fine."}`, testChunk(), discard)

	assert.True(t, res.Failed())
	assert.Equal(t, "response missing gaps", res.Err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testChunk().Files)

	assert.Contains(t, prompt, "File: app/main.py (code)\n```\nx = 1\n```")
	assert.Contains(t, prompt, "File: README.md (doc)\n```\n# App\n```")
	assert.Contains(t, prompt, "missing_documentation")
	assert.Contains(t, prompt, "outdated_documentation")
	assert.Contains(t, prompt, "missing_implementation")
	assert.Contains(t, prompt, "inaccurate_documentation")
	assert.Contains(t, prompt, `"suggested_change"`)
}

func TestAnalyzeChunk_RejectsEmptyChunk(t *testing.T) {
	a, err := NewAzure(Config{APIKey: "k", Endpoint: "https://x.openai.azure.com", Deployment: "gpt-4"})
	require.NoError(t, err)
	a.logf = discard

	res := a.AnalyzeChunk(context.Background(), types.Chunk{})

	assert.True(t, res.Failed())
	assert.Equal(t, types.ErrEmptyChunk.Error(), res.Err)
}

func TestNewAzure_RequiresCredentials(t *testing.T) {
	_, err := NewAzure(Config{APIKey: "k", Endpoint: "https://x.openai.azure.com"})
	assert.ErrorIs(t, err, types.ErrMissingCredentials)

	a, err := NewAzure(Config{APIKey: "k", Endpoint: "https://x.openai.azure.com", Deployment: "gpt-4"})
	require.NoError(t, err)
	assert.NotNil(t, a)
}
