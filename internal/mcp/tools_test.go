package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStringDefault(t *testing.T) {
	args := map[string]interface{}{
		"set":   "value",
		"empty": "",
		"wrong": 7,
	}

	assert.Equal(t, "value", getStringDefault(args, "set", "def"))
	assert.Equal(t, "def", getStringDefault(args, "empty", "def"))
	assert.Equal(t, "def", getStringDefault(args, "wrong", "def"))
	assert.Equal(t, "def", getStringDefault(args, "absent", "def"))
}

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{
		"json_number": float64(50000),
		"go_int":      7,
		"wrong":       "nope",
	}

	assert.Equal(t, 50000, getIntDefault(args, "json_number", 1))
	assert.Equal(t, 7, getIntDefault(args, "go_int", 1))
	assert.Equal(t, 1, getIntDefault(args, "wrong", 1))
	assert.Equal(t, 1, getIntDefault(nil, "absent", 1))
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, validatePath(dir))

	assert.Error(t, validatePath("relative/path"))
	assert.Error(t, validatePath(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, validatePath(file))
}

func TestMCPError(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "bad input", map[string]interface{}{"param": "x"})

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	assert.Equal(t, "MCP error -32602: bad input", mcpErr.Error())
}

func TestFormatJSON(t *testing.T) {
	out := formatJSON(map[string]interface{}{"chunks": 3})
	assert.JSONEq(t, `{"chunks": 3}`, out)
}
