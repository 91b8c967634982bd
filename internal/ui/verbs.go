package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burrow/burrow/internal/ignore"
	"github.com/burrow/burrow/internal/tree"
)

// execVerb runs a typed verb against the current selection. Unknown verbs
// are reported in the status bar; the verb part of the input is consumed
// either way, keeping the pattern so the user can retry.
func (m Model) execVerb(verb string) (tea.Model, tea.Cmd) {
	switch verb {
	case "q", "quit":
		m.quitting = true
		return m, tea.Quit

	case "cd":
		if line := m.selectedLine(); line != nil && line.IsDir() {
			m.exitPath = line.Path
			m.quitting = true
			return m, tea.Quit
		}
		m.errMsg = "cd: selection is not a directory"
		return m.popVerb()

	case "open", "o":
		if line := m.selectedLine(); line != nil {
			m.exitPath = line.Path
			m.quitting = true
			return m, tea.Quit
		}
		return m.popVerb()

	case "hidden", "h":
		m.baseOpts.ShowHidden = !m.baseOpts.ShowHidden
		return m.rebuildAfterVerb()

	case "sizes":
		m.baseOpts.ShowSizes = !m.baseOpts.ShowSizes
		return m.rebuildAfterVerb()

	case "folders":
		m.baseOpts.OnlyFolders = !m.baseOpts.OnlyFolders
		return m.rebuildAfterVerb()

	case "gitignore", "gi":
		m.baseOpts.RespectIgnore = cycleMode(m.baseOpts.RespectIgnore)
		return m.rebuildAfterVerb()

	case "help", "?":
		m.errMsg = "verbs: quit cd open hidden sizes folders gitignore"
		return m.popVerb()

	default:
		m.errMsg = "unknown verb: " + verb
		return m.popVerb()
	}
}

// cycleMode rotates off -> on -> auto -> off.
func cycleMode(mode ignore.Mode) ignore.Mode {
	switch mode {
	case ignore.ModeOff:
		return ignore.ModeOn
	case ignore.ModeOn:
		return ignore.ModeAuto
	default:
		return ignore.ModeOff
	}
}

// selectedLine returns the currently selected line, or nil.
func (m *Model) selectedLine() *tree.Line {
	if m.tr == nil {
		return nil
	}
	return m.tr.SelectedLine()
}

// popVerb consumes the verb part of the input, keeping the pattern.
func (m Model) popVerb() (tea.Model, tea.Cmd) {
	m.cmd = m.cmd.PopVerb()
	m.input.SetValue(m.cmd.Raw)
	return m, nil
}

// rebuildAfterVerb consumes the verb and rebuilds with the (possibly
// still active) pattern and the toggled options.
func (m Model) rebuildAfterVerb() (tea.Model, tea.Cmd) {
	m.cmd = m.cmd.PopVerb()
	m.input.SetValue(m.cmd.Raw)
	return m, m.startBuild(m.cmd.Parts.Pattern)
}
