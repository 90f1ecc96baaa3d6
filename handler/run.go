/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package handler

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/ralph-bot/ralph/guidance"
	"github.com/ralph-bot/ralph/prd"
)

// Run selects the next user story (or the story named by the first argument)
// and asks the generator for implementation guidance on it.
type Run struct{}

// Handle implements Handler.
func (Run) Handle(ctx context.Context, hc *Context) (string, error) {
	log := clog.FromContext(ctx)

	doc, err := hc.Source.Document(ctx, hc.Owner, hc.Repo, hc.Branch)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return noPRDMessage(hc.Branch), nil
	}

	var story *prd.UserStory
	if len(hc.Args) > 0 {
		id := hc.Args[0]
		if story = doc.FindIncomplete(id); story == nil {
			return fmt.Sprintf("Story `%s` not found or already complete.", id), nil
		}
	} else {
		if story = doc.NextStory(); story == nil {
			// Nothing left to do; skip the generative call entirely.
			done, total := doc.Remaining()
			return fmt.Sprintf("🎉 All stories are complete (%d/%d). Nothing left to run.", done, total), nil
		}
	}

	progress, hasProgress, err := hc.Source.ProgressLog(ctx, hc.Owner, hc.Repo, hc.Branch)
	if err != nil {
		return "", err
	}

	log.With("story", story.ID).With("branch", hc.Branch).Info("Generating guidance")
	text, err := hc.Generator.Guidance(ctx, guidance.Request{
		Project:     doc.Project,
		Branch:      hc.Branch,
		Story:       story,
		Stories:     doc.UserStories,
		ProgressLog: progress,
		HasProgress: hasProgress,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("### 🔨 Working on `%s`: %s\n\n%s", story.ID, story.Title, text), nil
}

// noPRDMessage is the shared "document absent" guidance used by run and
// status so the user sees the same path and branch in both.
func noPRDMessage(branch string) string {
	return fmt.Sprintf("No PRD found at `%s` on branch `%s`.", prd.DocumentPath, branch)
}
