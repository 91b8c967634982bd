package tree

import (
	"container/heap"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/burrow/burrow/internal/task"
)

const (
	defaultOverGatherFactor = 20
	defaultPatienceBudget   = 400 * time.Millisecond
)

// Builder runs one bounded tree build. All nodes created during the build
// live in the blines arena and are addressed by index; temporary
// structures (the BFS queue, the candidate list, the trim queue) hold
// indexes only, so dropping the builder is the only cleanup a cancelled
// build needs.
//
// A Builder produces at most one tree: call Build exactly once.
type Builder struct {
	blines       []bline // the arena; index 0 is the root
	opts         Options
	targetSize   int // the number of lines we should fill (height of the screen)
	nbGitignored int
	logger       *slog.Logger
}

// NewBuilder prepares a build rooted at rootPath, which must be a
// directory. targetSize is the desired number of output lines, typically
// the terminal's visible row count.
func NewBuilder(rootPath string, opts Options, targetSize int) (*Builder, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", rootPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	if targetSize < 1 {
		return nil, fmt.Errorf("target size must be positive, got %d", targetSize)
	}

	return &Builder{
		blines:     []bline{rootBLine(abs, opts)},
		opts:       opts,
		targetSize: targetSize,
		logger:     slog.Default().With("component", "tree"),
	}, nil
}

// Build runs the gather, trim and finalize steps and returns the tree.
// It returns nil when the lifetime was cancelled; a cancelled build emits
// nothing, not even logs, on the result path.
func (b *Builder) Build(lt *task.Lifetime) *Tree {
	outBlines, ok := b.gatherLines(lt)
	if !ok {
		return nil
	}
	if b.opts.Pattern != nil {
		b.trimExcess(outBlines)
	}
	return b.intoTree(outBlines)
}

// store appends the bline to the arena and returns its index. Indexes are
// stable: once assigned they never change.
func (b *Builder) store(bl bline) int {
	idx := len(b.blines)
	b.blines = append(b.blines, bl)
	return idx
}

// loadChildren reads the directory entries of the node at blineIdx,
// filters and stores the accepted ones, and records their indexes sorted
// by lowercased name. It reports whether any accepted child directly
// matches the pattern. A read failure flags the node and yields no
// children.
func (b *Builder) loadChildren(blineIdx int) bool {
	b.blines[blineIdx].childrenLoaded = true

	dirPath := b.blines[blineIdx].path
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		b.blines[blineIdx].hasError = true
		return false
	}

	depth := b.blines[blineIdx].depth + 1
	parentFilter := b.blines[blineIdx].ignoreFilter

	hasChildMatch := false
	children := make([]int, 0, len(entries))
	for _, entry := range entries {
		bl, status := childBLine(blineIdx, dirPath, entry, depth, b.opts, parentFilter)
		switch status {
		case blineOK:
			if bl.hasMatch {
				hasChildMatch = true
			}
			children = append(children, b.store(bl))
		case blineIgnored:
			b.nbGitignored++
		default:
			// dropped for another reason, nothing to record
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return strings.ToLower(b.blines[children[i]].name) < strings.ToLower(b.blines[children[j]].name)
	})
	b.blines[blineIdx].children = children

	return hasChildMatch
}

// nextChild advances the node's child cursor and returns the next child
// index. loadChildren must have been called on blineIdx before.
func (b *Builder) nextChild(blineIdx int) (int, bool) {
	bl := &b.blines[blineIdx]
	if bl.nextChildIdx >= len(bl.children) {
		return 0, false
	}
	child := bl.children[bl.nextChildIdx]
	bl.nextChildIdx++
	return child, true
}

// gatherLines is the exploration engine: a level-order descent with a
// rolling set of open directories. Without a pattern it stops as soon as
// the target height is filled. With a pattern it over-gathers (bounded by
// the over-gather factor and the patience budget) so the trimmer can pick
// the best matches afterwards, and it polls the lifetime once per
// iteration. The returned candidate list starts with the root and is in
// discovery order; ok is false when the build was cancelled.
func (b *Builder) gatherLines(lt *task.Lifetime) (outBlines []int, ok bool) {
	start := time.Now()
	overGather := b.opts.OverGatherFactor
	if overGather <= 0 {
		overGather = defaultOverGatherFactor
	}
	patience := b.opts.PatienceBudget
	if patience <= 0 {
		patience = defaultPatienceBudget
	}

	outBlines = []int{0}
	okCount := 1 // the root always counts

	b.loadChildren(0)
	openDirs := []int{0}
	var nextLevelDirs []int

	for {
		if b.opts.Pattern != nil {
			if okCount > overGather*b.targetSize ||
				(okCount >= b.targetSize && time.Since(start) > patience) {
				b.logger.Debug("gather budget reached", "ok_count", okCount, "target", b.targetSize)
				break
			}
			if lt.IsCancelled() {
				return nil, false
			}
		} else if okCount >= b.targetSize {
			break
		}

		if len(openDirs) > 0 {
			openDirIdx := openDirs[0]
			openDirs = openDirs[1:]
			childIdx, more := b.nextChild(openDirIdx)
			if !more {
				continue
			}
			// Round-robin among the open directories of this depth so no
			// single branch monopolizes the height budget.
			openDirs = append(openDirs, openDirIdx)
			child := &b.blines[childIdx]
			if child.hasMatch {
				okCount++
			}
			if child.kind == KindDir {
				nextLevelDirs = append(nextLevelDirs, childIdx)
			}
			outBlines = append(outBlines, childIdx)
			continue
		}

		// This depth is exhausted; go one level deeper, or stop if there
		// is nothing deeper.
		if len(nextLevelDirs) == 0 {
			break
		}
		for _, dirIdx := range nextLevelDirs {
			if b.loadChildren(dirIdx) {
				// A direct match below makes the whole ancestor chain
				// visible; count each node whose flag flips.
				idx := dirIdx
				for {
					bl := &b.blines[idx]
					if !bl.hasMatch {
						bl.hasMatch = true
						okCount++
					}
					if idx == 0 {
						break
					}
					idx = bl.parentIdx
				}
			}
			openDirs = append(openDirs, dirIdx)
		}
		nextLevelDirs = nextLevelDirs[:0]
	}

	if b.opts.ShowSizes {
		// The size panel needs the complete first level, even past the
		// bottom of the screen.
		for {
			childIdx, more := b.nextChild(0)
			if !more {
				break
			}
			outBlines = append(outBlines, childIdx)
		}
	}

	return outBlines, true
}

// trimExcess removes the lowest-scoring matches until the target height is
// reached, never removing a node that still has a kept descendant: a node
// enters the removal queue only once its kept-children counter drops to
// zero. With sizes shown, depth-1 nodes are exempt so the first level
// stays complete.
func (b *Builder) trimExcess(outBlines []int) {
	count := 1
	for _, idx := range outBlines[1:] {
		if b.blines[idx].hasMatch {
			count++
			b.blines[b.blines[idx].parentIdx].nbKeptChildren++
		}
	}

	queue := make(trimQueue, 0, 64)
	for _, idx := range outBlines[1:] {
		bl := &b.blines[idx]
		if bl.hasMatch && bl.nbKeptChildren == 0 && b.trimEligible(bl) {
			queue = append(queue, trimItem{idx: idx, score: bl.score})
		}
	}
	heap.Init(&queue)

	b.logger.Debug("trimming", "count", count, "target", b.targetSize)
	for count > b.targetSize {
		if queue.Len() == 0 {
			// The root plus the first level may be an irreducible minimum.
			b.logger.Debug("trimming interrupted early")
			break
		}
		item := heap.Pop(&queue).(trimItem)
		b.blines[item.idx].hasMatch = false
		count--

		parentIdx := b.blines[item.idx].parentIdx
		parent := &b.blines[parentIdx]
		parent.nbKeptChildren--
		if parent.nbKeptChildren == 0 && parentIdx != 0 && b.trimEligible(parent) {
			heap.Push(&queue, trimItem{idx: parentIdx, score: parent.score})
		}
	}
}

// trimEligible implements the depth rule: with sizes shown, first-level
// nodes are kept no matter their score.
func (b *Builder) trimEligible(bl *bline) bool {
	return bl.depth > 1 || !b.opts.ShowSizes
}

// intoTree finalizes the kept candidates into the output tree. Directories
// that were never loaded (skipped by the budget) are loaded now so their
// unlisted count is correct.
func (b *Builder) intoTree(outBlines []int) *Tree {
	lines := make([]Line, 0, len(outBlines))
	for _, idx := range outBlines {
		if !b.blines[idx].hasMatch {
			continue
		}
		if !b.blines[idx].childrenLoaded && b.blines[idx].kind == KindDir {
			b.loadChildren(idx)
		}
		lines = append(lines, b.blines[idx].toLine())
	}

	return &Tree{
		Lines:        lines,
		Selection:    0,
		Scroll:       0,
		Options:      b.opts,
		NbGitignored: b.nbGitignored,
	}
}
