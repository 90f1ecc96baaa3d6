/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package command parses `/ralph` commands out of free-form comment bodies.
package command

import "strings"

// Prefix is the word that marks a comment line as a command.
const Prefix = "/ralph"

// Kind enumerates the closed set of commands the bot understands.
// Anything after the prefix that is not in this set parses as KindUnknown,
// which routes to a "use help" reply rather than a silent drop.
type Kind int

const (
	KindUnknown Kind = iota
	KindRun
	KindStatus
	KindHelp
)

// String returns the canonical command word for a Kind.
func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindStatus:
		return "status"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Command is a parsed command: the kind, the command word as the user wrote
// it (lowercased), and any arguments in order.
type Command struct {
	Kind Kind
	Name string
	Args []string
}

// Parse scans the comment body for the first line of the form
// "/ralph <word> [args...]" and returns the parsed command. The command word
// is matched case-insensitively; arguments keep their case. The second return
// is false when no line matches, which callers must treat as "not addressed
// to us", not as an error. Parse is total: it never fails on any input.
func Parse(body string) (Command, bool) {
	for line := range strings.Lines(body) {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != Prefix {
			continue
		}
		name := strings.ToLower(fields[1])
		cmd := Command{
			Name: name,
			Args: fields[2:],
		}
		switch name {
		case "run":
			cmd.Kind = KindRun
		case "status":
			cmd.Kind = KindStatus
		case "help":
			cmd.Kind = KindHelp
		default:
			cmd.Kind = KindUnknown
		}
		return cmd, true
	}
	return Command{}, false
}
