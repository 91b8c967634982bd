// Package ui implements the interactive navigator on top of bubbletea.
// The model owns the current tree, the input line, and the lifetime of
// the in-flight build; every pattern edit cancels the previous build and
// starts a new one, and stale results are recognized by a generation
// counter and dropped.
package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burrow/burrow/internal/command"
	"github.com/burrow/burrow/internal/pattern"
	"github.com/burrow/burrow/internal/sizer"
	"github.com/burrow/burrow/internal/task"
	"github.com/burrow/burrow/internal/tree"
)

// chromeHeight is the number of screen rows not available to tree lines:
// the input line and the status bar.
const chromeHeight = 2

// buildResultMsg delivers a finished (or cancelled) build to the model.
type buildResultMsg struct {
	generation int
	tree       *tree.Tree // nil when the build was cancelled
	err        error
}

// Model is the bubbletea model for the navigator.
type Model struct {
	root     string
	baseOpts tree.Options // options without the pattern; the input supplies it

	input textinput.Model
	cmd   command.Command

	tr       *tree.Tree
	lifetime *task.Lifetime
	// generation identifies the most recent build; results tagged with an
	// older generation are stale and discarded.
	generation int
	building   bool

	width  int
	height int

	// exitPath, when set, is printed on exit so a shell wrapper can cd to
	// it or open it.
	exitPath string
	quitting bool
	errMsg   string

	logger *slog.Logger
}

// New creates the model. opts must not carry a Pattern; the input line
// owns it.
func New(root string, opts tree.Options, height int) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "pattern, or pattern<space>verb"
	input.Focus()

	return Model{
		root:     root,
		baseOpts: opts,
		input:    input,
		height:   height,
		width:    80,
		cmd:      command.New(),
		lifetime: task.New(),
		logger:   slog.Default().With("component", "ui"),
	}
}

// ExitPath returns the path selected with the cd or open verb, if any.
// The CLI prints it after the program quits.
func (m Model) ExitPath() string {
	return m.exitPath
}

// Init implements tea.Model: it launches the first build. Init cannot
// mutate the model, so the initial lifetime comes from New and the first
// result carries generation zero.
func (m Model) Init() tea.Cmd {
	return buildCmd(m.root, m.baseOpts, m.treeHeight(), m.lifetime, m.generation)
}

// treeHeight is the number of lines the tree may fill.
func (m *Model) treeHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// startBuild cancels any in-flight build and launches a new one for the
// given pattern as a tea command. Only the update loop calls it, so the
// generation bump is race-free.
func (m *Model) startBuild(query string) tea.Cmd {
	if m.lifetime != nil {
		m.lifetime.Cancel()
	}
	m.lifetime = task.New()
	m.generation++
	m.building = true

	opts := m.baseOpts
	if query != "" {
		opts.Pattern = pattern.NewFuzzy(query)
	}
	return buildCmd(m.root, opts, m.treeHeight(), m.lifetime, m.generation)
}

// buildCmd runs one build off the update loop and delivers its result
// tagged with the generation that launched it.
func buildCmd(root string, opts tree.Options, height int, lifetime *task.Lifetime, generation int) tea.Cmd {
	return func() tea.Msg {
		builder, err := tree.NewBuilder(root, opts, height)
		if err != nil {
			return buildResultMsg{generation: generation, err: err}
		}
		t := builder.Build(lifetime)
		if t != nil && opts.ShowSizes {
			_ = sizer.Populate(lifetime.Context(), t)
		}
		return buildResultMsg{generation: generation, tree: t}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.startBuild(m.cmd.Parts.Pattern)

	case buildResultMsg:
		if msg.generation != m.generation {
			// A newer build is already running; this result is stale.
			return m, nil
		}
		m.building = false
		if msg.err != nil {
			m.logger.Debug("build failed", "error", msg.err)
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if msg.tree == nil {
			// Cancelled; the newer build will deliver its own result.
			return m, nil
		}
		m.errMsg = ""
		m.tr = msg.tree
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey maps a keystroke to a command action and applies it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyUp:
		return m.applyAction(command.Action{Kind: command.ActionMoveSelection, Amount: -1})
	case tea.KeyDown:
		return m.applyAction(command.Action{Kind: command.ActionMoveSelection, Amount: 1})
	case tea.KeyPgUp:
		return m.applyAction(command.Action{Kind: command.ActionScrollPage, Amount: -1})
	case tea.KeyPgDown:
		return m.applyAction(command.Action{Kind: command.ActionScrollPage, Amount: 1})

	case tea.KeyEsc:
		return m.applyAction(command.Action{Kind: command.ActionBack})

	case tea.KeyTab:
		return m.applyAction(command.Action{Kind: command.ActionNext})

	case tea.KeyEnter:
		action := command.ActionFor(m.cmd.Parts, true)
		return m.applyAction(action)

	case tea.KeyBackspace:
		if m.input.Value() == "" {
			return m.applyAction(command.Action{Kind: command.ActionBack})
		}
	}

	// Everything else edits the input line.
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	previous := m.cmd
	m.cmd = command.FromRaw(m.input.Value())

	var rebuild tea.Cmd
	if m.cmd.Parts.Pattern != previous.Parts.Pattern {
		rebuild = m.startBuild(m.cmd.Parts.Pattern)
	}
	return m, tea.Batch(inputCmd, rebuild)
}

// applyAction executes a parsed action against the current state.
func (m Model) applyAction(action command.Action) (tea.Model, tea.Cmd) {
	switch action.Kind {
	case command.ActionMoveSelection:
		if m.tr != nil {
			m.tr.MoveSelection(action.Amount)
		}
		return m, nil

	case command.ActionScrollPage:
		if m.tr != nil {
			m.tr.MoveSelection(action.Amount * m.treeHeight())
		}
		return m, nil

	case command.ActionOpenSelection:
		return m.openSelection()

	case command.ActionVerb:
		return m.execVerb(action.Verb)

	case command.ActionBack:
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.cmd = command.New()
			return m, m.startBuild("")
		}
		m.quitting = true
		return m, tea.Quit

	case command.ActionNext:
		if m.tr != nil {
			m.selectNextMatch()
		}
		return m, nil
	}

	return m, nil
}

// openSelection enters the selected directory or exits printing the
// selected file path.
func (m Model) openSelection() (tea.Model, tea.Cmd) {
	if m.tr == nil {
		return m, nil
	}
	line := m.tr.SelectedLine()
	if line == nil {
		return m, nil
	}
	if line.IsDir() {
		if m.tr.Selection == 0 {
			return m, nil // the root stays the root
		}
		m.root = line.Path
		m.input.SetValue("")
		m.cmd = command.New()
		return m, m.startBuild("")
	}
	m.exitPath = line.Path
	m.quitting = true
	return m, tea.Quit
}

// selectNextMatch moves the selection to the next line with a positive
// score, wrapping around.
func (m *Model) selectNextMatch() {
	n := len(m.tr.Lines)
	if n == 0 {
		return
	}
	for step := 1; step <= n; step++ {
		idx := (m.tr.Selection + step) % n
		if m.tr.Lines[idx].Score > 0 {
			m.tr.Selection = idx
			return
		}
	}
}
