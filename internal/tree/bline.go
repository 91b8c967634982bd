package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/burrow/burrow/internal/ignore"
)

// bline is a tree line during the build: arena-resident, addressed by its
// index, mutable until finalization. It carries the exploration state
// (child cursor, match flag, per-node ignore filter) that the immutable
// Line no longer needs.
type bline struct {
	parentIdx      int
	path           string
	depth          uint16
	name           string
	kind           Kind
	symlinkTarget  string
	childrenLoaded bool
	children       []int // arena indexes, sorted by lowercased name
	nextChildIdx   int
	hasError       bool
	hasMatch       bool
	score          int
	ignoreFilter   ignore.Filter // nil unless filtering is active; extended per directory
	nbKeptChildren int           // used only by the trimmer
}

// blineStatus is the outcome of trying to build a bline from a directory
// entry. Only blineOK yields a node; the others record why the entry was
// dropped (the builder cares about blineIgnored for the gitignored count).
type blineStatus int

const (
	blineOK blineStatus = iota
	blineFilteredAsHidden
	blineFilteredByPattern
	blineFilteredAsNonFolder
	blineIgnored
)

// rootBLine builds the arena's seed node. The root always has a match so
// it can never disappear from the output, even when the active pattern
// rejects its own name.
func rootBLine(path string, opts Options) bline {
	name := filepath.Base(path)

	var filter ignore.Filter
	if chain := ignore.NewGitignoreChain(path, opts.RespectIgnore); chain != nil {
		filter = chain
	}
	filter = ignore.Compose(filter, opts.IgnoreFilter)

	return bline{
		parentIdx:    0, // self; the root is its own parent
		path:         path,
		depth:        0,
		name:         name,
		kind:         KindDir,
		hasMatch:     true,
		ignoreFilter: filter,
	}
}

// childBLine builds a node for one directory entry, applying in order the
// hidden-name filter, the ignore filter, the pattern and the only-folders
// filter. dirPath is the parent directory, parentFilter its ignore filter.
func childBLine(parentIdx int, dirPath string, entry fs.DirEntry, depth uint16, opts Options, parentFilter ignore.Filter) (bline, blineStatus) {
	name := entry.Name()
	if !opts.ShowHidden && len(name) > 0 && name[0] == '.' {
		return bline{}, blineFilteredAsHidden
	}

	entryType := entry.Type()
	isDir := entryType.IsDir()
	path := filepath.Join(dirPath, name)

	var filter ignore.Filter
	if parentFilter != nil {
		if !parentFilter.Accepts(path, name, isDir) {
			return bline{}, blineIgnored
		}
		if isDir {
			filter = parentFilter.ExtendTo(path)
		}
	}

	hasMatch := true
	score := 0
	if opts.Pattern != nil {
		var ok bool
		score, ok = opts.Pattern.Score(name)
		if !ok {
			hasMatch = false
			score = 0
		}
	}

	kind := KindFile
	symlinkTarget := ""
	switch {
	case isDir:
		kind = KindDir
	case entryType&fs.ModeSymlink != 0:
		// A non-matching symlink can be dropped right away: unlike a
		// directory it cannot hide a deeper match.
		if !hasMatch {
			return bline{}, blineFilteredByPattern
		}
		if opts.OnlyFolders {
			return bline{}, blineFilteredAsNonFolder
		}
		kind = KindSymlink
		if target, err := os.Readlink(path); err == nil {
			symlinkTarget = target
		} else {
			symlinkTarget = "???"
		}
	default:
		if !hasMatch {
			return bline{}, blineFilteredByPattern
		}
		if opts.OnlyFolders {
			return bline{}, blineFilteredAsNonFolder
		}
	}

	return bline{
		parentIdx:     parentIdx,
		path:          path,
		depth:         depth,
		name:          name,
		kind:          kind,
		symlinkTarget: symlinkTarget,
		hasMatch:      hasMatch,
		score:         score,
		ignoreFilter:  filter,
	}, blineOK
}

// toLine freezes the bline into a render-ready Line, fetching ownership
// metadata with an lstat that does not follow symlinks. A failed lstat
// leaves mode/uid/gid at zero; the line is still emitted.
func (b *bline) toLine() Line {
	var mode, uid, gid uint32
	if info, err := os.Lstat(b.path); err == nil {
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			mode = uint32(st.Mode)
			uid = st.Uid
			gid = st.Gid
		}
	}
	return Line{
		LeftBranches:  make([]bool, b.depth),
		Depth:         b.depth,
		Name:          b.name,
		Path:          b.path,
		Kind:          b.kind,
		SymlinkTarget: b.symlinkTarget,
		HasError:      b.hasError,
		Unlisted:      len(b.children) - b.nextChildIdx,
		Score:         b.score,
		Mode:          mode,
		UID:           uid,
		GID:           gid,
		Size:          SizeUnknown,
	}
}
