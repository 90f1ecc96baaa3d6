/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package guidance renders implementation-guidance prompts for a target user
// story and generates guidance text through the Anthropic API.
package guidance

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/ralph-bot/ralph/prd"
)

// Request carries everything the prompt needs: the story to work on, the full
// story list for context, and the progress log when one exists.
type Request struct {
	Project     string
	Branch      string
	Story       *prd.UserStory
	Stories     []prd.UserStory
	ProgressLog string
	HasProgress bool
}

// SystemPrompt is the fixed role framing sent as the system instruction.
const SystemPrompt = `You are Ralph, an engineering copilot that reviews a project's prioritized ` +
	`user stories and proposes how to implement the next one. You reply in concise ` +
	`GitHub-flavored markdown. You propose an implementation approach, concrete steps, ` +
	`and how to satisfy each acceptance criterion. You do not write the full patch.`

// BuildPrompt renders the user message deterministically: task context, the
// target story, the full story-status table, and the progress excerpt (or an
// explicit note that none exists).
func BuildPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Project: %s\nBranch: %s\n\n", req.Project, req.Branch)

	s := req.Story
	fmt.Fprintf(&sb, "## Target story\n\nID: %s\nTitle: %s\nPriority: %d\n", s.ID, s.Title, s.Priority)
	if s.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", s.Description)
	}
	if len(s.AcceptanceCriteria) > 0 {
		sb.WriteString("\nAcceptance criteria:\n")
		for _, ac := range s.AcceptanceCriteria {
			fmt.Fprintf(&sb, "- %s\n", ac)
		}
	}

	sb.WriteString("\n## All stories\n\n")
	sb.WriteString(StoryTable(req.Stories))

	sb.WriteString("\n## Progress log\n\n")
	if req.HasProgress {
		sb.WriteString(req.ProgressLog)
		if !strings.HasSuffix(req.ProgressLog, "\n") {
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No progress log exists yet.\n")
	}

	sb.WriteString("\nPropose how to implement the target story.\n")
	return sb.String()
}

// StoryTable renders the story list as a markdown table in document order.
func StoryTable(stories []prd.UserStory) string {
	var sb strings.Builder
	table := newMarkdownTable([]string{"ID", "Title", "Priority", "Status"}, &sb)
	for _, s := range stories {
		status := "incomplete"
		if s.Passes {
			status = "complete"
		}
		_ = table.Append([]string{s.ID, s.Title, fmt.Sprint(s.Priority), status})
	}
	_ = table.Render()
	return sb.String()
}

// newMarkdownTable creates a table writer with the formatting used for all
// markdown tables this service emits.
func newMarkdownTable(headers []string, w *strings.Builder) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
