package types

import "fmt"

// OriginKind identifies which repository a packed file came from.
type OriginKind string

const (
	OriginCode OriginKind = "code"
	OriginDoc  OriginKind = "doc"
)

// FileUnit is one file, or one fragment of a file (a def/class span or a
// line range), as packed into a chunk. Path is the display path shown to
// the model; for fragments it carries a suffix such as
// "pkg/api.py (def handler)" or "pkg/api.py (truncated)".
type FileUnit struct {
	Path    string
	Content string
	Kind    OriginKind
}

// Chunk is one unit of analysis sized to fit a single model request.
// Tokens is the sum of each unit's standalone framed token count.
type Chunk struct {
	Files  []FileUnit
	Tokens int
}

// ValidateContent checks that the chunk carries at least one addressable unit.
func (c *Chunk) ValidateContent() error {
	if len(c.Files) == 0 {
		return ErrEmptyChunk
	}
	for _, f := range c.Files {
		if f.Path == "" {
			return fmt.Errorf("file unit path cannot be empty")
		}
	}
	return nil
}

// Paths returns the display paths of every unit in the chunk.
func (c *Chunk) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
