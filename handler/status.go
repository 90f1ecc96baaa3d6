/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package handler

import (
	"context"
	"fmt"
	"strings"
)

// Status renders the story checklist for the resolved branch. It makes no
// generative calls.
type Status struct{}

// Handle implements Handler.
func (Status) Handle(ctx context.Context, hc *Context) (string, error) {
	doc, err := hc.Source.Document(ctx, hc.Owner, hc.Repo, hc.Branch)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return noPRDMessage(hc.Branch), nil
	}

	done, total := doc.Remaining()

	var sb strings.Builder
	title := doc.Project
	if title == "" {
		title = hc.Repo
	}
	fmt.Fprintf(&sb, "### 📋 %s — `%s`\n\n", title, hc.Branch)
	fmt.Fprintf(&sb, "Progress: %d/%d stories complete\n\n", done, total)
	for _, s := range doc.UserStories {
		marker := "⬜"
		if s.Passes {
			marker = "✅"
		}
		fmt.Fprintf(&sb, "- %s `%s` %s\n", marker, s.ID, s.Title)
		if s.Notes != "" {
			fmt.Fprintf(&sb, "  - 📝 %s\n", s.Notes)
		}
	}
	return sb.String(), nil
}
