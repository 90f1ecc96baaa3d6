/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package handler implements the run, status, and help commands. Handlers
// turn a resolved target (owner/repo/branch) into the markdown body of the
// reply comment. A returned error means the dispatcher owes the user an
// error reply; user-facing outcomes like "no PRD found" are ordinary return
// strings, not errors.
package handler

import (
	"context"

	"github.com/ralph-bot/ralph/guidance"
	"github.com/ralph-bot/ralph/prd"
)

// Context carries the per-dispatch target and collaborators. Everything in
// it is scoped to one webhook event.
type Context struct {
	Owner  string
	Repo   string
	Branch string
	Args   []string

	Source    prd.Source
	Generator guidance.Generator
}

// Handler produces the reply body for one command.
type Handler interface {
	Handle(ctx context.Context, hc *Context) (string, error)
}
