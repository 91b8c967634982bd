// Package tree implements burrow's bounded tree builder: given a root
// directory, display options, an optional search pattern and a target
// height, it produces at most that many render-ready lines, surfacing the
// best matches anywhere under the root while always keeping every shown
// line's ancestors visible.
package tree

import (
	"time"

	"github.com/burrow/burrow/internal/ignore"
	"github.com/burrow/burrow/internal/pattern"
)

// Kind classifies a tree entry.
type Kind int

const (
	// KindDir is a directory.
	KindDir Kind = iota
	// KindFile is a regular file (or anything that is neither a directory
	// nor a symlink).
	KindFile
	// KindSymlink is a symbolic link; Line.SymlinkTarget holds the target
	// string, never followed.
	KindSymlink
)

// Options configures one build. The zero value means: no pattern, hidden
// entries skipped, files included, no sizes, gitignore off.
type Options struct {
	// Pattern scores entry names. Nil means no search is active: every
	// entry matches with score 0 and exploration stops as soon as the
	// target height is reached.
	Pattern pattern.Matcher

	// ShowHidden includes entries whose name starts with a dot.
	ShowHidden bool

	// OnlyFolders excludes regular files and symlinks.
	OnlyFolders bool

	// ShowSizes requests a complete first level (the root's direct
	// children are never trimmed and are drained past the height budget)
	// so the size panel can display every top-level entry.
	ShowSizes bool

	// RespectIgnore selects gitignore filtering: off, on, or auto
	// (only when the root is inside a git repository).
	RespectIgnore ignore.Mode

	// IgnoreFilter is an extra caller-supplied filter composed with the
	// gitignore chain. Optional.
	IgnoreFilter ignore.Filter

	// OverGatherFactor bounds pattern-mode exploration to factor*height
	// matched lines. Zero means the default of 20.
	OverGatherFactor int

	// PatienceBudget is how long pattern-mode exploration keeps digging
	// once the height is already filled. Zero means the default of 400ms.
	PatienceBudget time.Duration
}

// SizeUnknown is the Size value of a line the sizer has not populated.
const SizeUnknown int64 = -1

// Line is one immutable, render-ready row of the output tree.
type Line struct {
	// LeftBranches has one flag per depth level, all false on emit. The
	// renderers in internal/ui compute branch glyphs from line depths and
	// do not read it.
	LeftBranches []bool
	Depth        uint16
	Name         string
	Path         string
	Kind         Kind
	// SymlinkTarget is the link target string for KindSymlink lines, or
	// "???" when the target could not be read.
	SymlinkTarget string
	HasError      bool
	// Unlisted counts this directory's accepted children that the height
	// budget kept out of the tree.
	Unlisted int
	Score    int
	Mode     uint32
	UID      uint32
	GID      uint32
	// Size is populated by the sizer for regular files; SizeUnknown until
	// then and for directories.
	Size int64
}

// IsDir reports whether the line is a directory.
func (l *Line) IsDir() bool {
	return l.Kind == KindDir
}

// Tree is the output of one build.
type Tree struct {
	Lines     []Line
	Selection int
	Scroll    int
	Options   Options
	// NbGitignored counts the entries the ignore filter rejected during
	// this build. Informational, shown in the status bar.
	NbGitignored int
}

// MoveSelection moves the selection by dy, clamped to the line range.
func (t *Tree) MoveSelection(dy int) {
	t.Selection += dy
	if t.Selection < 0 {
		t.Selection = 0
	}
	if t.Selection >= len(t.Lines) {
		t.Selection = len(t.Lines) - 1
	}
}

// SelectedLine returns the currently selected line, or nil for an empty tree.
func (t *Tree) SelectedLine() *Line {
	if t.Selection < 0 || t.Selection >= len(t.Lines) {
		return nil
	}
	return &t.Lines[t.Selection]
}
