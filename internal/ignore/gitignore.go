package ignore

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// gitignoreLayer is one compiled .gitignore file together with the
// directory it lives in. Patterns are matched against paths relative to
// that directory, which is what sabhiram/go-gitignore expects.
type gitignoreLayer struct {
	dir     string
	matcher *gitignore.GitIgnore
}

// GitignoreChain applies .gitignore rules along a root-to-leaf path. The
// chain built for the root holds the .gitignore files of the repository
// root down to the build root; ExtendTo appends one layer per directory
// that carries its own .gitignore. Values are immutable: extending copies
// the layer slice, so an extended chain can never affect its parent.
type GitignoreChain struct {
	layers []gitignoreLayer
	logger *slog.Logger
}

// NewGitignoreChain builds the root filter for the given mode. It returns
// nil (no filtering) when mode is ModeOff, or when mode is ModeAuto and
// rootDir is not inside a git repository. For ModeOn outside a repository
// the chain starts from rootDir's own .gitignore, if any.
//
// The chain collects .gitignore files from the repository root down to
// rootDir so that rules declared above the build root still apply, the
// same way git itself resolves them.
func NewGitignoreChain(rootDir string, mode Mode) *GitignoreChain {
	if mode == ModeOff {
		return nil
	}

	logger := slog.Default().With("component", "gitignore")

	gitRoot, inRepo := findGitRoot(rootDir)
	if !inRepo {
		if mode == ModeAuto {
			return nil
		}
		gitRoot = rootDir
	}

	chain := &GitignoreChain{logger: logger}
	for _, dir := range dirsBetween(gitRoot, rootDir) {
		chain.layers = appendLayer(chain.layers, dir, logger)
	}

	logger.Debug("gitignore chain initialized",
		"root", rootDir,
		"git_root", gitRoot,
		"layers", len(chain.layers),
	)
	return chain
}

// Accepts implements Filter. An entry is rejected as soon as any layer's
// patterns match it; negation patterns inside a single .gitignore are
// resolved by the compiled matcher itself.
func (c *GitignoreChain) Accepts(path, name string, isDir bool) bool {
	_ = name
	for _, layer := range c.layers {
		rel, err := filepath.Rel(layer.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		matchPath := filepath.ToSlash(rel)
		if isDir {
			matchPath += "/"
		}
		if layer.matcher.MatchesPath(matchPath) {
			return false
		}
	}
	return true
}

// ExtendTo implements Filter. If dirPath carries a .gitignore, the result
// is a new chain with that file compiled as an extra layer; otherwise the
// receiver is returned unchanged.
func (c *GitignoreChain) ExtendTo(dirPath string) Filter {
	ignoreFile := filepath.Join(dirPath, ".gitignore")
	if _, err := os.Stat(ignoreFile); err != nil {
		return c
	}
	extended := &GitignoreChain{
		layers: appendLayer(append([]gitignoreLayer(nil), c.layers...), dirPath, c.logger),
		logger: c.logger,
	}
	return extended
}

// LayerCount returns the number of compiled .gitignore files in the chain.
func (c *GitignoreChain) LayerCount() int {
	return len(c.layers)
}

// appendLayer compiles dir/.gitignore and appends it to layers. Missing or
// unreadable files are skipped; a broken .gitignore must not hide the tree.
func appendLayer(layers []gitignoreLayer, dir string, logger *slog.Logger) []gitignoreLayer {
	ignoreFile := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignoreFile); err != nil {
		return layers
	}
	compiled, err := gitignore.CompileIgnoreFile(ignoreFile)
	if err != nil {
		logger.Debug("skipping unreadable .gitignore", "path", ignoreFile, "error", err)
		return layers
	}
	return append(layers, gitignoreLayer{dir: dir, matcher: compiled})
}

// findGitRoot walks up from dir looking for a .git entry. Returns the
// repository root and true when found.
func findGitRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// dirsBetween lists ancestor directories from top down to leaf, both
// inclusive. When leaf is not under top it returns just leaf.
func dirsBetween(top, leaf string) []string {
	rel, err := filepath.Rel(top, leaf)
	if err != nil || strings.HasPrefix(rel, "..") {
		return []string{leaf}
	}
	dirs := []string{top}
	if rel == "." {
		return dirs
	}
	current := top
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		dirs = append(dirs, current)
	}
	return dirs
}

var _ Filter = (*GitignoreChain)(nil)
