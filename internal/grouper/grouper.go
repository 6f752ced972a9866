// Package grouper merges per-directory file sets into semantic groups
// using import references as a proximity signal.
package grouper

import (
	"sort"
	"strings"

	"github.com/dshills/docgap/internal/structure"
)

// group is one live file set, keyed transiently by its seed directory.
type group struct {
	dir   string
	files map[string]struct{}
}

// Group partitions the repository's files into semantic groups: one group
// per directory, then a fixed-point merge of any pair where a file in one
// group imports something whose dotted path starts with the other group's
// directory name. The heuristic is intentionally loose; substring
// collisions between directory names are tolerated.
//
// Each full scan collects all merge candidates, applies them, and rescans;
// the loop terminates because every applied merge removes a group. Returned
// groups hold sorted file paths; group order follows the sorted seed
// directories of the surviving groups.
func Group(s *structure.RepoStructure) [][]string {
	groups := seedGroups(s)

	for {
		merges := findMerges(groups, s.Imports)
		if len(merges) == 0 {
			break
		}
		groups = applyMerges(groups, merges)
	}

	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		files := make([]string, 0, len(g.files))
		for f := range g.files {
			files = append(files, f)
		}
		sort.Strings(files)
		out = append(out, files)
	}
	return out
}

// seedGroups builds one group per owning directory, in sorted directory
// order for determinism.
func seedGroups(s *structure.RepoStructure) []*group {
	byDir := make(map[string]*group)
	for path, meta := range s.Files {
		g, ok := byDir[meta.Directory]
		if !ok {
			g = &group{dir: meta.Directory, files: make(map[string]struct{})}
			byDir[meta.Directory] = g
		}
		g.files[path] = struct{}{}
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	groups := make([]*group, 0, len(dirs))
	for _, d := range dirs {
		groups = append(groups, byDir[d])
	}
	return groups
}

// merge records that the group seeded by src folds into the one seeded by dst.
type merge struct {
	dst, src string
}

// findMerges scans every unordered pair of live groups and returns each
// eligible (dst, src) merge at most once per dst.
func findMerges(groups []*group, imports map[string][]string) []merge {
	var merges []merge
	for i, a := range groups {
		for _, b := range groups[i+1:] {
			if importsInto(a, b.dir, imports) {
				merges = append(merges, merge{dst: a.dir, src: b.dir})
			} else if importsInto(b, a.dir, imports) {
				merges = append(merges, merge{dst: b.dir, src: a.dir})
			}
		}
	}
	return merges
}

// importsInto reports whether any file in g records an import whose dotted
// path starts with dir, with either path-separator convention rewritten to
// dots.
func importsInto(g *group, dir string, imports map[string][]string) bool {
	fwd := strings.ReplaceAll(dir, "/", ".")
	back := strings.ReplaceAll(dir, "\\", ".")
	for f := range g.files {
		for _, ref := range imports[f] {
			if strings.HasPrefix(ref, fwd) || strings.HasPrefix(ref, back) {
				return true
			}
		}
	}
	return false
}

// applyMerges folds each src group's files into its dst group, following
// dst chains when a dst was itself merged away earlier in the same pass.
func applyMerges(groups []*group, merges []merge) []*group {
	byDir := make(map[string]*group, len(groups))
	for _, g := range groups {
		byDir[g.dir] = g
	}
	// target resolves a directory to its surviving group after the merges
	// applied so far in this pass.
	merged := make(map[string]string)
	target := func(dir string) *group {
		for {
			next, ok := merged[dir]
			if !ok {
				break
			}
			dir = next
		}
		return byDir[dir]
	}

	for _, m := range merges {
		dst := target(m.dst)
		src := target(m.src)
		if dst == nil || src == nil || dst == src {
			continue
		}
		for f := range src.files {
			dst.files[f] = struct{}{}
		}
		delete(byDir, src.dir)
		merged[src.dir] = dst.dir
	}

	out := groups[:0]
	for _, g := range groups {
		if byDir[g.dir] == g {
			out = append(out, g)
		}
	}
	return out
}
