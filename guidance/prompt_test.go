/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package guidance_test

import (
	"strings"
	"testing"

	"github.com/ralph-bot/ralph/guidance"
	"github.com/ralph-bot/ralph/prd"
)

func sampleRequest() guidance.Request {
	stories := []prd.UserStory{
		{ID: "DARK-001", Title: "Toggle", Priority: 1, Passes: true},
		{ID: "DARK-004", Title: "Persist choice", Priority: 2},
	}
	return guidance.Request{
		Project: "Dark Mode",
		Branch:  "ralph/add-dark-mode",
		Story: &prd.UserStory{
			ID:                 "DARK-004",
			Title:              "Persist choice",
			Priority:           2,
			Description:        "Remember the user's theme across launches.",
			AcceptanceCriteria: []string{"Theme survives restart", "Default follows system"},
		},
		Stories: stories,
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		req := sampleRequest()
		if a, b := guidance.BuildPrompt(req), guidance.BuildPrompt(req); a != b {
			t.Error("BuildPrompt() differed across identical requests")
		}
	})

	t.Run("carries story context", func(t *testing.T) {
		got := guidance.BuildPrompt(sampleRequest())
		for _, want := range []string{
			"Project: Dark Mode",
			"Branch: ralph/add-dark-mode",
			"ID: DARK-004",
			"Theme survives restart",
			"Default follows system",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("story table lists every story with status", func(t *testing.T) {
		got := guidance.BuildPrompt(sampleRequest())
		for _, want := range []string{"DARK-001", "DARK-004", "complete", "incomplete"} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q in story table:\n%s", want, got)
			}
		}
	})

	t.Run("progress excerpt when present", func(t *testing.T) {
		req := sampleRequest()
		req.ProgressLog = "iteration 1: toggle landed"
		req.HasProgress = true
		got := guidance.BuildPrompt(req)
		if !strings.Contains(got, "iteration 1: toggle landed") {
			t.Errorf("prompt missing progress excerpt:\n%s", got)
		}
		if strings.Contains(got, "No progress log exists yet.") {
			t.Errorf("prompt has the no-log line despite a log:\n%s", got)
		}
	})

	t.Run("explicit line when no progress log", func(t *testing.T) {
		got := guidance.BuildPrompt(sampleRequest())
		if !strings.Contains(got, "No progress log exists yet.") {
			t.Errorf("prompt missing no-log line:\n%s", got)
		}
	})
}

func TestStoryTable(t *testing.T) {
	got := guidance.StoryTable([]prd.UserStory{
		{ID: "A-1", Title: "First", Priority: 1, Passes: true},
		{ID: "A-2", Title: "Second", Priority: 2},
	})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	// Header, separator, one row per story.
	if len(lines) != 4 {
		t.Fatalf("table lines: got = %d, wanted = 4\n%s", len(lines), got)
	}
	if !strings.Contains(lines[2], "A-1") || !strings.Contains(lines[2], "complete") {
		t.Errorf("first row: got = %q", lines[2])
	}
	if !strings.Contains(lines[3], "A-2") || !strings.Contains(lines[3], "incomplete") {
		t.Errorf("second row: got = %q", lines[3])
	}
}
