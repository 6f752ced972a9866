// Package structure walks a repository tree and records directory
// membership, per-file metadata, and Python import references.
package structure

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/docgap/internal/parser"
	"github.com/dshills/docgap/pkg/types"
)

// RootDirectory is the owning-directory label for files at the repository root.
const RootDirectory = "root"

// DefaultIgnoreDirs are tooling and dependency directories excluded from
// every walk, in addition to hidden directories.
var DefaultIgnoreDirs = []string{"node_modules", "__pycache__", "venv", "env", ".git"}

// FileMeta describes one file discovered under the repository root.
type FileMeta struct {
	AbsPath   string
	RelPath   string // forward-slash relative path
	Directory string // owning directory, "root" at the top level
	Ext       string
}

// RepoStructure is the immutable result of one repository walk:
// directories, per-file metadata, and per-file import references for the
// supported source dialect. Set-valued fields are kept as sorted slices
// for deterministic downstream serialization.
type RepoStructure struct {
	Directories []string
	Files       map[string]FileMeta
	Imports     map[string][]string
}

// SortedPaths returns every known relative file path in sorted order.
func (s *RepoStructure) SortedPaths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Extractor walks a repository tree and builds its RepoStructure.
type Extractor struct {
	parser *parser.Parser
	ignore map[string]struct{}
	logf   func(format string, args ...any)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithIgnoreDirs replaces the default ignore set. Hidden directories are
// always skipped regardless.
func WithIgnoreDirs(dirs []string) Option {
	return func(e *Extractor) {
		e.ignore = make(map[string]struct{}, len(dirs))
		for _, d := range dirs {
			e.ignore[d] = struct{}{}
		}
	}
}

// WithLogf replaces the warning logger, mainly for tests.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Extractor) { e.logf = logf }
}

// NewExtractor creates an Extractor with the default ignore set.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		parser: parser.New(),
		ignore: make(map[string]struct{}, len(DefaultIgnoreDirs)),
		logf:   log.Printf,
	}
	for _, d := range DefaultIgnoreDirs {
		e.ignore[d] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract walks root and records every non-hidden file's metadata plus
// import references for Python sources. A file that fails to parse is kept
// with a logged warning and no imports; the walk continues.
func (e *Extractor) Extract(root string) (*RepoStructure, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrRepoNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotDirectory, root)
	}

	s := &RepoStructure{
		Files:   make(map[string]FileMeta),
		Imports: make(map[string][]string),
	}
	dirSet := make(map[string]struct{})

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := e.ignore[name]; skip {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			dirSet[filepath.ToSlash(rel)] = struct{}{}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		dir := RootDirectory
		if parent := filepath.ToSlash(filepath.Dir(rel)); parent != "." {
			dir = parent
		}

		s.Files[rel] = FileMeta{
			AbsPath:   path,
			RelPath:   rel,
			Directory: dir,
			Ext:       filepath.Ext(name),
		}

		if strings.HasSuffix(name, ".py") {
			e.extractImports(s, path, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}

	s.Directories = make([]string, 0, len(dirSet))
	for d := range dirSet {
		s.Directories = append(s.Directories, d)
	}
	sort.Strings(s.Directories)
	return s, nil
}

// extractImports parses one Python file and records its import references
// as a sorted, deduplicated slice. Parse failure is non-fatal.
func (e *Extractor) extractImports(s *RepoStructure, absPath, relPath string) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		e.logf("Warning: could not read %s for imports: %v", relPath, err)
		return
	}
	mod, err := e.parser.Parse(string(content))
	if err != nil {
		e.logf("Warning: could not parse %s for imports: %v", relPath, err)
		return
	}
	if len(mod.Imports) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(mod.Imports))
	refs := make([]string, 0, len(mod.Imports))
	for _, ref := range mod.Imports {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	s.Imports[relPath] = refs
}
