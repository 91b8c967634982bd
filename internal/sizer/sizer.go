// Package sizer populates file sizes on a finished tree. The builder
// leaves every line's size unknown; when sizes are requested, the caller
// hands the tree here after the build. Only regular files are sized --
// directories would need a full subtree walk, which the navigator does
// not do.
package sizer

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/burrow/burrow/internal/tree"
)

// Populate stats every regular-file line of t in parallel and fills in
// Line.Size. Lines whose lstat fails keep SizeUnknown. The context bounds
// the whole pass; a cancelled context leaves the remaining lines unsized
// and returns the context error.
func Populate(ctx context.Context, t *tree.Tree) error {
	logger := slog.Default().With("component", "sizer")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range t.Lines {
		if t.Lines[i].Kind != tree.KindFile {
			continue
		}
		line := &t.Lines[i]
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			info, err := os.Lstat(line.Path)
			if err != nil {
				logger.Debug("size unavailable", "path", line.Path, "error", err)
				return nil
			}
			line.Size = info.Size()
			return nil
		})
	}

	return g.Wait()
}
