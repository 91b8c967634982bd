// Package command parses the navigator's input line. What the user types
// is split into an optional search pattern and an optional verb; the
// keystroke that accompanies the edit determines the resulting action.
// Parsing is independent of application state: verbs are not resolved
// here, only recognized syntactically.
package command

import "regexp"

// inputRe splits the visible input into a pattern part and a verb part.
// The pattern stops at the first space, slash or colon; anything after
// the separator is the verb (possibly empty while still being typed).
var inputRe = regexp.MustCompile(`^([^\s/:]+)?(?:[\s:]+(\S*))?$`)

// ActionKind enumerates what the last keystroke asks the application to do.
type ActionKind int

const (
	// ActionUnparsed means the input requires nothing (or was unparsable).
	ActionUnparsed ActionKind = iota
	// ActionPatternEdit carries a search pattern still being edited.
	ActionPatternEdit
	// ActionVerbEdit carries a verb still being edited.
	ActionVerbEdit
	// ActionVerb executes the typed verb.
	ActionVerb
	// ActionOpenSelection opens the selected line.
	ActionOpenSelection
	// ActionMoveSelection moves the selection up (negative) or down.
	ActionMoveSelection
	// ActionScrollPage scrolls by pages, not lines.
	ActionScrollPage
	// ActionBack returns to the previous state, or clears the pattern.
	ActionBack
	// ActionNext jumps to the next match.
	ActionNext
	// ActionHelp opens the help screen.
	ActionHelp
)

// Action is what a keystroke requires, with its argument when relevant.
type Action struct {
	Kind    ActionKind
	Pattern string // for ActionPatternEdit
	Verb    string // for ActionVerb and ActionVerbEdit
	Amount  int    // for ActionMoveSelection and ActionScrollPage
}

// Parts is the parsed decomposition of the visible input.
type Parts struct {
	// Pattern is the search pattern, nil-equivalent when empty and unset.
	Pattern string
	HasPattern bool
	// Verb may be set and empty when the user just typed the separator.
	Verb    string
	HasVerb bool
}

// ParseParts decomposes the raw input line.
func ParseParts(raw string) Parts {
	var p Parts
	m := inputRe.FindStringSubmatch(raw)
	if m == nil {
		return p
	}
	if m[1] != "" {
		p.Pattern = m[1]
		p.HasPattern = true
	}
	// The verb group is set (possibly empty) only when the separator was
	// typed; FindStringSubmatch cannot distinguish empty-matched from
	// unmatched, so check the separator directly.
	if sepRe.MatchString(raw) {
		p.Verb = m[2]
		p.HasVerb = true
	}
	return p
}

var sepRe = regexp.MustCompile(`^[^\s/:]*[\s:]`)

// ActionFor derives the action for the current parts. finished is true
// when the user pressed enter.
func ActionFor(parts Parts, finished bool) Action {
	if parts.HasVerb {
		if finished {
			return Action{Kind: ActionVerb, Verb: parts.Verb}
		}
		return Action{Kind: ActionVerbEdit, Verb: parts.Verb}
	}
	if finished {
		return Action{Kind: ActionOpenSelection}
	}
	if parts.HasPattern {
		return Action{Kind: ActionPatternEdit, Pattern: parts.Pattern}
	}
	return Action{Kind: ActionUnparsed}
}

// Command is the parsed representation of the input line plus the action
// required by the last keystroke.
type Command struct {
	Raw    string
	Parts  Parts
	Action Action
}

// New returns an empty command.
func New() Command {
	return Command{Action: Action{Kind: ActionUnparsed}}
}

// FromRaw parses a full input line, as after an edit (finished=false).
func FromRaw(raw string) Command {
	parts := ParseParts(raw)
	return Command{
		Raw:    raw,
		Parts:  parts,
		Action: ActionFor(parts, false),
	}
}

// PopVerb builds the command that follows a verb execution: the verb is
// consumed, the pattern is kept visible in the input.
func (c Command) PopVerb() Command {
	next := New()
	if c.Parts.HasVerb && c.Parts.HasPattern {
		next.Raw = c.Parts.Pattern
		next.Parts = ParseParts(next.Raw)
	}
	return next
}
