package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/burrow/burrow/internal/tree"
)

var (
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleDir      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleSymlink  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleBranch   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleUnlisted = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	styleStatus   = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.tr == nil {
		b.WriteString("building…\n")
	} else {
		for i := range m.tr.Lines {
			b.WriteString(m.renderLine(i))
			b.WriteByte('\n')
		}
	}

	b.WriteString(m.statusBar())
	b.WriteByte('\n')
	b.WriteString(m.input.View())

	return b.String()
}

// renderLine renders one tree row with its branch glyphs and decorations.
func (m *Model) renderLine(i int) string {
	line := &m.tr.Lines[i]

	var b strings.Builder
	b.WriteString(styleBranch.Render(branchPrefix(m.tr.Lines, i)))

	name := line.Name
	switch line.Kind {
	case tree.KindDir:
		name = styleDir.Render(name)
	case tree.KindSymlink:
		name = styleSymlink.Render(name + " -> " + line.SymlinkTarget)
	}
	if line.HasError {
		name = styleError.Render(line.Name + " (unreadable)")
	}
	b.WriteString(name)

	if line.Kind == tree.KindFile && line.Size != tree.SizeUnknown {
		b.WriteString(styleStatus.Render("  " + formatSize(line.Size)))
	}
	if line.IsDir() && line.Unlisted > 0 {
		b.WriteString(styleUnlisted.Render(fmt.Sprintf("  … %d unlisted", line.Unlisted)))
	}

	row := b.String()
	if i == m.tr.Selection {
		row = styleSelected.Render(row)
	}
	return row
}

// statusBar summarizes the build below the tree.
func (m *Model) statusBar() string {
	if m.errMsg != "" {
		return styleError.Render(m.errMsg)
	}
	var parts []string
	parts = append(parts, m.root)
	if m.building {
		parts = append(parts, "building…")
	}
	if m.tr != nil && m.tr.NbGitignored > 0 {
		parts = append(parts, fmt.Sprintf("%d gitignored", m.tr.NbGitignored))
	}
	return styleStatus.Render(strings.Join(parts, "  —  "))
}

// branchPrefix computes the tree glyphs for the line at index i: one cell
// per ancestor level (a vertical bar when that ancestor still has siblings
// below), then an elbow or tee for the line itself.
func branchPrefix(lines []tree.Line, i int) string {
	depth := int(lines[i].Depth)
	if depth == 0 {
		return ""
	}

	var b strings.Builder
	for level := 1; level < depth; level++ {
		if levelContinues(lines, i, level) {
			b.WriteString("│  ")
		} else {
			b.WriteString("   ")
		}
	}
	if levelContinues(lines, i, depth) {
		b.WriteString("├──")
	} else {
		b.WriteString("└──")
	}
	return b.String()
}

// levelContinues reports whether another line at the given depth follows
// line i before the tree climbs back above that depth.
func levelContinues(lines []tree.Line, i, depth int) bool {
	for j := i + 1; j < len(lines); j++ {
		d := int(lines[j].Depth)
		if d < depth {
			return false
		}
		if d == depth {
			return true
		}
	}
	return false
}

// formatSize renders a byte count compactly (B, K, M, G).
func formatSize(size int64) string {
	switch {
	case size < 1<<10:
		return fmt.Sprintf("%dB", size)
	case size < 1<<20:
		return fmt.Sprintf("%.1fK", float64(size)/(1<<10))
	case size < 1<<30:
		return fmt.Sprintf("%.1fM", float64(size)/(1<<20))
	default:
		return fmt.Sprintf("%.1fG", float64(size)/(1<<30))
	}
}

// RenderPlain renders a tree as uncolored text, one line per row. Used by
// the --print mode and by tests.
func RenderPlain(t *tree.Tree) string {
	var b strings.Builder
	for i := range t.Lines {
		line := &t.Lines[i]
		b.WriteString(branchPrefix(t.Lines, i))
		b.WriteString(line.Name)
		if line.Kind == tree.KindSymlink {
			b.WriteString(" -> " + line.SymlinkTarget)
		}
		if line.HasError {
			b.WriteString(" (unreadable)")
		}
		if line.Kind == tree.KindFile && line.Size != tree.SizeUnknown {
			b.WriteString("  " + formatSize(line.Size))
		}
		if line.IsDir() && line.Unlisted > 0 {
			fmt.Fprintf(&b, "  … %d unlisted", line.Unlisted)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
