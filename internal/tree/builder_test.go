package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrow/burrow/internal/ignore"
	"github.com/burrow/burrow/internal/task"
)

// scoreMatcher is a test double scoring names from a fixed table; names
// absent from the table do not match.
type scoreMatcher struct {
	scores map[string]int
}

func (m *scoreMatcher) Score(name string) (int, bool) {
	score, ok := m.scores[name]
	return score, ok
}

// mkFiles creates n empty files named with the given prefix and a
// two-digit counter.
func mkFiles(t *testing.T, dir, prefix string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		name := prefix + twoDigits(i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
}

func twoDigits(i int) string {
	return string([]byte{'0' + byte(i/10), '0' + byte(i%10)})
}

func names(tr *Tree) []string {
	out := make([]string, len(tr.Lines))
	for i := range tr.Lines {
		out[i] = tr.Lines[i].Name
	}
	return out
}

// assertAncestorClosure checks that every non-root line's parent directory
// appears in the output.
func assertAncestorClosure(t *testing.T, tr *Tree) {
	t.Helper()
	paths := make(map[string]bool, len(tr.Lines))
	for i := range tr.Lines {
		paths[tr.Lines[i].Path] = true
	}
	for i := 1; i < len(tr.Lines); i++ {
		parent := filepath.Dir(tr.Lines[i].Path)
		assert.True(t, paths[parent], "line %s misses its parent %s", tr.Lines[i].Path, parent)
	}
}

func build(t *testing.T, root string, opts Options, height int) *Tree {
	t.Helper()
	builder, err := NewBuilder(root, opts, height)
	require.NoError(t, err)
	tr := builder.Build(task.New())
	require.NotNil(t, tr)
	return tr
}

func TestBudgetWithoutPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkFiles(t, root, "f", 50)

	tr := build(t, root, Options{}, 10)

	require.Len(t, tr.Lines, 10)
	assert.Equal(t, filepath.Base(root), tr.Lines[0].Name)
	for i := 1; i < 10; i++ {
		assert.Equal(t, "f"+twoDigits(i-1), tr.Lines[i].Name)
	}
	assert.Equal(t, 41, tr.Lines[0].Unlisted)
	assert.Equal(t, 0, tr.Selection)
	assert.Equal(t, 0, tr.Scroll)
}

func TestPatternForcesDeepDescent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := root
	for _, level := range []string{"a", "b", "c"} {
		mkFiles(t, dir, "noise", 30)
		dir = filepath.Join(dir, level)
		require.NoError(t, os.Mkdir(dir, 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "match.txt"), nil, 0644))

	opts := Options{Pattern: &scoreMatcher{scores: map[string]int{"match.txt": 7}}}
	tr := build(t, root, opts, 10)

	want := []string{filepath.Base(root), "a", "b", "c", "match.txt"}
	assert.Equal(t, want, names(tr))
	assertAncestorClosure(t, tr)
	assert.Equal(t, 7, tr.Lines[4].Score)
}

func TestTrimmingPreservesAncestors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	scores := make(map[string]int)
	for i := 1; i <= 5; i++ {
		d := filepath.Join(root, "d"+string(rune('0'+i)))
		require.NoError(t, os.Mkdir(d, 0755))
		leaf := "x" + string(rune('0'+i))
		require.NoError(t, os.WriteFile(filepath.Join(d, leaf), nil, 0644))
		scores[leaf] = i
	}

	tr := build(t, root, Options{Pattern: &scoreMatcher{scores: scores}}, 6)

	require.Len(t, tr.Lines, 6)
	assertAncestorClosure(t, tr)

	kept := names(tr)
	// The two best matches survive with their parents; the sixth slot goes
	// to the directory whose leaf was trimmed last.
	assert.ElementsMatch(t, []string{filepath.Base(root), "d3", "d4", "d5", "x4", "x5"}, kept)
}

func TestHiddenFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "visible"), nil, 0644))

	tr := build(t, root, Options{}, 10)
	assert.NotContains(t, names(tr), ".hidden")
	assert.Contains(t, names(tr), "visible")

	tr = build(t, root, Options{ShowHidden: true}, 10)
	assert.Contains(t, names(tr), ".hidden")
}

// rejectLogs is a Filter rejecting *.log entries, standing in for a
// caller-supplied ignore capability.
type rejectLogs struct{}

func (rejectLogs) Accepts(_, name string, _ bool) bool {
	return !strings.HasSuffix(name, ".log")
}

func (r rejectLogs) ExtendTo(string) ignore.Filter { return r }

func TestIgnoreFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "drop.log"), nil, 0644))

	tr := build(t, root, Options{IgnoreFilter: rejectLogs{}}, 10)

	assert.Equal(t, []string{filepath.Base(root), "keep.txt"}, names(tr))
	assert.Equal(t, 1, tr.NbGitignored)
}

func TestCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for i := 0; i < 5; i++ {
		d := filepath.Join(root, "d"+string(rune('0'+i)))
		require.NoError(t, os.Mkdir(d, 0755))
		mkFiles(t, d, "f", 20)
	}

	builder, err := NewBuilder(root, Options{Pattern: &scoreMatcher{scores: map[string]int{"f00": 1}}}, 10)
	require.NoError(t, err)

	lifetime := task.New()
	lifetime.Cancel()

	assert.Nil(t, builder.Build(lifetime))
}

func TestSiblingOrderCaseInsensitive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"B", "a", "C.txt", "b2"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0644))
	}

	tr := build(t, root, Options{}, 10)
	assert.Equal(t, []string{filepath.Base(root), "a", "B", "b2", "C.txt"}, names(tr))
}

func TestPrefixStabilityWithoutPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	mkFiles(t, root, "r", 6)
	mkFiles(t, sub, "s", 6)

	small := build(t, root, Options{}, 5)
	large := build(t, root, Options{}, 9)

	require.Greater(t, len(large.Lines), len(small.Lines))
	for i := range small.Lines {
		assert.Equal(t, small.Lines[i].Path, large.Lines[i].Path, "line %d reordered", i)
	}
}

func TestUnlistedAccounting(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "deep")
	require.NoError(t, os.Mkdir(sub, 0755))
	mkFiles(t, root, "r", 10)
	mkFiles(t, sub, "s", 10)

	tr := build(t, root, Options{}, 8)

	appearing := make(map[string]int)
	for i := 1; i < len(tr.Lines); i++ {
		appearing[filepath.Dir(tr.Lines[i].Path)]++
	}
	for i := range tr.Lines {
		line := &tr.Lines[i]
		if !line.IsDir() {
			continue
		}
		assert.GreaterOrEqual(t, line.Unlisted, 0)
		entries, err := os.ReadDir(line.Path)
		require.NoError(t, err)
		assert.Equal(t, len(entries), line.Unlisted+appearing[line.Path],
			"unlisted accounting for %s", line.Path)
	}
}

func TestShowSizesDrainsFirstLevel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkFiles(t, root, "f", 30)

	tr := build(t, root, Options{ShowSizes: true}, 5)

	// The complete first level is kept despite the height budget.
	require.Len(t, tr.Lines, 31)
	assert.Equal(t, 0, tr.Lines[0].Unlisted)
}

func TestOnlyFolders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), nil, 0644))

	tr := build(t, root, Options{OnlyFolders: true}, 10)
	assert.Equal(t, []string{filepath.Base(root), "dir"}, names(tr))
}

func TestSymlinkTargetRead(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.WriteFile(target, nil, 0644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

	tr := build(t, root, Options{}, 10)

	var link *Line
	for i := range tr.Lines {
		if tr.Lines[i].Kind == KindSymlink {
			link = &tr.Lines[i]
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "link", link.Name)
	assert.Equal(t, target, link.SymlinkTarget)
}

func TestUnreadableDirIsFlagged(t *testing.T) {
	t.Parallel()
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	tr := build(t, root, Options{}, 10)

	require.Len(t, tr.Lines, 2)
	assert.True(t, tr.Lines[1].HasError)
	assert.Equal(t, 0, tr.Lines[1].Unlisted)
}

func TestRootStaysVisibleWhenPatternRejectsIt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hit"), nil, 0644))

	tr := build(t, root, Options{Pattern: &scoreMatcher{scores: map[string]int{"hit": 3}}}, 10)

	require.NotEmpty(t, tr.Lines)
	assert.Equal(t, filepath.Base(root), tr.Lines[0].Name)
}

func TestBuilderRejectsBadInput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewBuilder(file, Options{}, 10)
	assert.Error(t, err)

	_, err = NewBuilder(filepath.Join(root, "missing"), Options{}, 10)
	assert.Error(t, err)

	_, err = NewBuilder(root, Options{}, 0)
	assert.Error(t, err)
}
