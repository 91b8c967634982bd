package ignore

import (
	"github.com/bmatcuk/doublestar/v4"
)

// GlobFilter rejects entries whose base name matches any of a fixed list
// of doublestar glob patterns. It backs the `exclude` config key and the
// repeatable --exclude flag. Patterns are validated at construction time
// so per-entry matching never errors.
//
// GlobFilter carries no per-directory state: ExtendTo always returns the
// receiver.
type GlobFilter struct {
	patterns []string
}

// Globs builds a GlobFilter from the given patterns. Syntactically invalid
// patterns are discarded. Returns nil when no valid pattern remains, so an
// empty exclude list costs nothing per entry.
func Globs(patterns []string) *GlobFilter {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if doublestar.ValidatePattern(p) {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return &GlobFilter{patterns: valid}
}

// Accepts implements Filter.
func (g *GlobFilter) Accepts(path, name string, isDir bool) bool {
	_ = path
	_ = isDir
	for _, p := range g.patterns {
		matched, err := doublestar.Match(p, name)
		if err == nil && matched {
			return false
		}
	}
	return true
}

// ExtendTo implements Filter. Glob patterns are global, not per-directory.
func (g *GlobFilter) ExtendTo(string) Filter {
	return g
}

var _ Filter = (*GlobFilter)(nil)
