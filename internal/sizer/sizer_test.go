package sizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrow/burrow/internal/tree"
)

func TestPopulate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	small := filepath.Join(dir, "small")
	big := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(small, []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(big, make([]byte, 4096), 0644))

	tr := &tree.Tree{Lines: []tree.Line{
		{Path: dir, Kind: tree.KindDir, Size: tree.SizeUnknown},
		{Path: big, Kind: tree.KindFile, Size: tree.SizeUnknown},
		{Path: small, Kind: tree.KindFile, Size: tree.SizeUnknown},
		{Path: filepath.Join(dir, "gone"), Kind: tree.KindFile, Size: tree.SizeUnknown},
	}}

	require.NoError(t, Populate(context.Background(), tr))

	assert.Equal(t, tree.SizeUnknown, tr.Lines[0].Size, "directories stay unsized")
	assert.Equal(t, int64(4096), tr.Lines[1].Size)
	assert.Equal(t, int64(3), tr.Lines[2].Size)
	assert.Equal(t, tree.SizeUnknown, tr.Lines[3].Size, "missing files stay unsized")
}

func TestPopulateCancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := &tree.Tree{Lines: []tree.Line{{Path: file, Kind: tree.KindFile, Size: tree.SizeUnknown}}}
	assert.Error(t, Populate(ctx, tr))
}
