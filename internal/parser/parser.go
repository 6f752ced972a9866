package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/docgap/pkg/types"
)

// DefKind distinguishes top-level definition forms.
type DefKind string

const (
	KindFunction DefKind = "def"
	KindClass    DefKind = "class"
)

// Def is one top-level function or class definition with its line span.
// Lines are 1-based and inclusive.
type Def struct {
	Kind      DefKind
	Name      string
	StartLine int
	EndLine   int
}

// Label returns the human-readable form used in chunk display paths,
// "def <name>" or "class <name>".
func (d Def) Label() string {
	return fmt.Sprintf("%s %s", d.Kind, d.Name)
}

// Module holds what the scanner extracts from one Python source file:
// every import reference (dotted module paths, "from X import Y" recorded
// as "X.Y") in order of appearance, and every top-level def/class span.
type Module struct {
	Imports []string
	Defs    []Def
}

var (
	reImport = regexp.MustCompile(`^\s*import\s+(.+)$`)
	reFrom   = regexp.MustCompile(`^\s*from\s+(\S+)\s+import\s+(.+)$`)
	reDef    = regexp.MustCompile(`^(async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	reClass  = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*[:(]`)
)

// Parser scans Python source. It is a line/indentation scanner, not a full
// grammar: it tracks triple-quoted strings and comments well enough to
// locate import statements and top-level definition spans.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// lineInfo is the per-line classification the scanner works from.
type lineInfo struct {
	startsInState bool   // line begins inside a triple-quoted string
	code          string // text with comments and string contents removed
	indent        int
}

// Parse scans src and returns its imports and top-level definitions.
// It fails on invalid UTF-8 and on a triple-quoted string left open at
// end of file; both make the rest of the scan meaningless.
func (p *Parser) Parse(src string) (*Module, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: source is not valid UTF-8", types.ErrParseFailed)
	}

	lines := strings.Split(src, "\n")
	infos := make([]lineInfo, len(lines))

	// Pass 1: classify every line, tracking triple-quoted string state.
	state := "" // open triple-quote delimiter, "" when outside
	for i, line := range lines {
		info := lineInfo{startsInState: state != ""}
		info.code, state = stripStrings(line, state)
		info.indent = len(line) - len(strings.TrimLeft(line, " \t"))
		infos[i] = info
	}
	if state != "" {
		return nil, fmt.Errorf("%w: unterminated triple-quoted string", types.ErrParseFailed)
	}

	mod := &Module{}

	// Pass 2: imports at any nesting level, definitions at column zero.
	for i, info := range infos {
		if info.startsInState {
			continue
		}
		code := strings.TrimRight(info.code, " \t")
		mod.Imports = append(mod.Imports, parseImports(code)...)

		if info.indent != 0 {
			continue
		}
		stmt := strings.TrimSpace(code)
		if m := reDef.FindStringSubmatch(stmt); m != nil {
			mod.Defs = append(mod.Defs, Def{
				Kind:      KindFunction,
				Name:      m[2],
				StartLine: i + 1,
				EndLine:   blockEnd(infos, i),
			})
		} else if m := reClass.FindStringSubmatch(stmt); m != nil {
			mod.Defs = append(mod.Defs, Def{
				Kind:      KindClass,
				Name:      m[1],
				StartLine: i + 1,
				EndLine:   blockEnd(infos, i),
			})
		}
	}

	return mod, nil
}

// blockEnd returns the 1-based last line of the block opened at line index
// start: the final non-blank line before the next column-zero statement,
// or the file's last line when nothing follows.
func blockEnd(infos []lineInfo, start int) int {
	end := start
	for i := start + 1; i < len(infos); i++ {
		info := infos[i]
		if !info.startsInState && info.indent == 0 && strings.TrimSpace(info.code) != "" {
			break
		}
		// Comment-only and blank lines do not extend the block.
		if info.startsInState || strings.TrimSpace(info.code) != "" {
			end = i
		}
	}
	return end + 1
}

// parseImports extracts dotted import references from one logical line.
//
//	import a.b, c      -> ["a.b", "c"]
//	import a.b as x    -> ["a.b"]
//	from x.y import z  -> ["x.y.z"]
//	from . import z    -> [".z"]
func parseImports(code string) []string {
	if m := reFrom.FindStringSubmatch(code); m != nil {
		module := strings.TrimLeft(m[1], ".")
		var refs []string
		for _, name := range splitNames(m[2]) {
			refs = append(refs, module+"."+name)
		}
		return refs
	}
	if m := reImport.FindStringSubmatch(code); m != nil {
		var refs []string
		for _, name := range splitNames(m[1]) {
			refs = append(refs, name)
		}
		return refs
	}
	return nil
}

// splitNames splits a comma-separated import list, dropping "as" aliases,
// parentheses, and line-continuation backslashes.
func splitNames(list string) []string {
	list = strings.NewReplacer("(", "", ")", "", "\\", "").Replace(list)
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if name == "*" || !validRef(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// validRef reports whether s looks like a dotted identifier path.
func validRef(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			continue
		}
		for i, r := range seg {
			if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
				continue
			}
			if i > 0 && r >= '0' && r <= '9' {
				continue
			}
			return false
		}
	}
	return s != ""
}

// stripStrings removes comment text and string contents from one line,
// carrying triple-quoted string state across lines. The returned code
// keeps the line's structure (indentation, keywords) while anything inside
// a string or after a # is blanked out.
func stripStrings(line, state string) (code string, newState string) {
	var b strings.Builder
	i := 0
	for i < len(line) {
		if state != "" {
			// Inside a triple-quoted string: look for the closing delimiter.
			idx := strings.Index(line[i:], state)
			if idx < 0 {
				return b.String(), state
			}
			i += idx + len(state)
			state = ""
			continue
		}
		switch c := line[i]; c {
		case '#':
			return b.String(), ""
		case '\'', '"':
			delim := string(c)
			triple := delim + delim + delim
			if strings.HasPrefix(line[i:], triple) {
				state = triple
				b.WriteString(`""`)
				i += len(triple)
				continue
			}
			b.WriteString(`""`)
			// Single-quoted string: skip to the closing quote on this line.
			j := i + 1
			for j < len(line) {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == c {
					break
				}
				j++
			}
			if j >= len(line) {
				// Unterminated simple string; treat the rest as string text.
				return b.String(), ""
			}
			i = j + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), state
}
