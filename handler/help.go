/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package handler

import "context"

// HelpText is the static reply for `/ralph help`.
const HelpText = `### 🤖 Ralph commands

- ` + "`/ralph run`" + ` — get implementation guidance for the highest-priority incomplete story
- ` + "`/ralph run <story-id>`" + ` — get guidance for a specific incomplete story
- ` + "`/ralph status`" + ` — show the story checklist for this branch
- ` + "`/ralph help`" + ` — show this message

Ralph reads ` + "`scripts/ralph/prd.json`" + ` and ` + "`scripts/ralph/progress.txt`" + ` from the pull request branch.`

// Help replies with the command reference. No I/O, no failure path.
type Help struct{}

// Handle implements Handler.
func (Help) Handle(context.Context, *Context) (string, error) {
	return HelpText, nil
}
