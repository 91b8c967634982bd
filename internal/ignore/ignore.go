// Package ignore implements the entry-hiding capability consumed by the
// tree builder. A Filter decides whether a directory entry should be shown
// at all, and can extend itself with rules discovered inside a directory
// (a nested .gitignore) as the builder descends. The builder never looks
// at the rules themselves; it only calls Accepts and ExtendTo.
package ignore

import (
	"fmt"
	"strings"
)

// Filter is the capability interface. Accepts reports whether the entry
// should be kept; path is absolute, name is the entry's base name, isDir
// distinguishes directory entries (directory-only patterns need it).
// ExtendTo returns a filter augmented with any rules found inside dirPath;
// when dirPath adds nothing, implementations return the receiver.
//
// A Filter must be safe to share by reference for the duration of one
// build: ExtendTo derives new values and never mutates the receiver.
type Filter interface {
	Accepts(path, name string, isDir bool) bool
	ExtendTo(dirPath string) Filter
}

// Mode selects how gitignore rules are applied to a build.
type Mode int

const (
	// ModeOff disables gitignore filtering entirely.
	ModeOff Mode = iota
	// ModeOn always builds a filter at the root and extends it downward.
	ModeOn
	// ModeAuto builds a filter only when the root sits inside a git
	// repository; otherwise it behaves like ModeOff.
	ModeAuto
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOn:
		return "on"
	case ModeAuto:
		return "auto"
	default:
		return "off"
	}
}

// ParseMode converts a flag or config value into a Mode. Accepted values
// are "off", "on" and "auto" (case-insensitive); an empty string means
// "auto".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "off":
		return ModeOff, nil
	case "on":
		return ModeOn, nil
	case "auto", "":
		return ModeAuto, nil
	default:
		return ModeOff, fmt.Errorf("invalid gitignore mode %q (allowed: off, on, auto)", s)
	}
}

// Compose chains several filters into one: an entry is accepted only if
// every chained filter accepts it. Nil filters are skipped. Returns nil
// when no non-nil filter remains, so callers can pass the result straight
// to the builder.
func Compose(filters ...Filter) Filter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return composite(kept)
	}
}

type composite []Filter

func (c composite) Accepts(path, name string, isDir bool) bool {
	for _, f := range c {
		if !f.Accepts(path, name, isDir) {
			return false
		}
	}
	return true
}

func (c composite) ExtendTo(dirPath string) Filter {
	extended := make(composite, len(c))
	changed := false
	for i, f := range c {
		extended[i] = f.ExtendTo(dirPath)
		if extended[i] != f {
			changed = true
		}
	}
	if !changed {
		return c
	}
	return extended
}

var _ Filter = (composite)(nil)
