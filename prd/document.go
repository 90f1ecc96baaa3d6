/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package prd models the task document ("PRD") and progress log that drive
// the run and status commands, and fetches them from a repository branch.
package prd

// UserStory is one prioritized work item in a task document.
type UserStory struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	AcceptanceCriteria []string `json:"acceptanceCriteria,omitempty"`
	// Priority orders work: lower numbers are picked first.
	Priority int    `json:"priority"`
	Passes   bool   `json:"passes"`
	Notes    string `json:"notes,omitempty"`
}

// Document is the parsed task document.
type Document struct {
	Project     string      `json:"project"`
	BranchName  string      `json:"branchName"`
	Description string      `json:"description,omitempty"`
	UserStories []UserStory `json:"userStories"`
}

// NextStory returns the incomplete story with the lowest Priority number,
// breaking ties by original document order. It returns nil when every story
// passes (or there are none).
func (d *Document) NextStory() *UserStory {
	var next *UserStory
	for i := range d.UserStories {
		s := &d.UserStories[i]
		if s.Passes {
			continue
		}
		if next == nil || s.Priority < next.Priority {
			next = s
		}
	}
	return next
}

// FindIncomplete returns the first incomplete story whose ID exactly matches
// id, or nil. Stories with Passes set are never returned, even on an exact ID
// match: completed work is not selectable. Story IDs are expected to be
// unique; if they are not, the first match wins.
func (d *Document) FindIncomplete(id string) *UserStory {
	for i := range d.UserStories {
		s := &d.UserStories[i]
		if s.ID == id && !s.Passes {
			return s
		}
	}
	return nil
}

// Remaining reports how many stories pass and how many exist in total.
func (d *Document) Remaining() (done, total int) {
	for _, s := range d.UserStories {
		if s.Passes {
			done++
		}
	}
	return done, len(d.UserStories)
}
