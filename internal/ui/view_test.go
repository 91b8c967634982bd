package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/burrow/burrow/internal/testutil"
	"github.com/burrow/burrow/internal/tree"
)

func line(depth int, name string, kind tree.Kind) tree.Line {
	return tree.Line{
		Depth: uint16(depth),
		Name:  name,
		Kind:  kind,
		Size:  tree.SizeUnknown,
	}
}

func TestBranchPrefix(t *testing.T) {
	t.Parallel()

	lines := []tree.Line{
		line(0, "root", tree.KindDir),
		line(1, "a", tree.KindDir),
		line(2, "a1", tree.KindFile),
		line(2, "a2", tree.KindFile),
		line(1, "b", tree.KindFile),
	}

	assert.Equal(t, "", branchPrefix(lines, 0))
	assert.Equal(t, "├──", branchPrefix(lines, 1), "a has a sibling below")
	assert.Equal(t, "│  ├──", branchPrefix(lines, 2), "a1 is followed by a2, a by b")
	assert.Equal(t, "│  └──", branchPrefix(lines, 3), "a2 is the last child of a")
	assert.Equal(t, "└──", branchPrefix(lines, 4), "b closes the first level")
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int64
		want string
	}{
		{size: 0, want: "0B"},
		{size: 999, want: "999B"},
		{size: 1536, want: "1.5K"},
		{size: 3 << 20, want: "3.0M"},
		{size: 2 << 30, want: "2.0G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.size))
	}
}

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	tr := &tree.Tree{Lines: []tree.Line{
		line(0, "root", tree.KindDir),
		line(1, "sub", tree.KindDir),
		{Depth: 2, Name: "ln", Kind: tree.KindSymlink, SymlinkTarget: "/etc/hosts", Size: tree.SizeUnknown},
		func() tree.Line {
			l := line(1, "file", tree.KindFile)
			l.Size = 1536
			return l
		}(),
	}}
	tr.Lines[1].Unlisted = 3

	got := RenderPlain(tr)
	want := "root\n" +
		"├──sub  … 3 unlisted\n" +
		"│  └──ln -> /etc/hosts\n" +
		"└──file  1.5K\n"
	assert.Equal(t, want, got)
	testutil.Golden(t, "plain_tree", []byte(got))
}
