/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch is the webhook entry point: it verifies, authenticates,
// parses, and routes one comment event, posts exactly one reply comment, and
// brackets the work with best-effort reactions.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/ralph-bot/ralph/command"
	"github.com/ralph-bot/ralph/githubauth"
	"github.com/ralph-bot/ralph/guidance"
	"github.com/ralph-bot/ralph/handler"
	"github.com/ralph-bot/ralph/metrics"
	"github.com/ralph-bot/ralph/prd"
)

const (
	// defaultBranch is the status fallback when a comment has no pull
	// request context at all.
	defaultBranch = "main"

	// Reaction markers bracketing a dispatch on the triggering comment.
	reactionProcessing = "eyes"
	reactionDone       = "rocket"

	// maxBodyBytes bounds webhook payload reads.
	maxBodyBytes = 1 << 22 // 4 MiB
)

// Dispatcher handles webhook deliveries. Every delivery is an independent,
// stateless request/response cycle: the installation client and any fetched
// documents live in locals and are never shared across events.
type Dispatcher struct {
	secret     []byte
	auth       *githubauth.Authenticator
	generator  guidance.Generator
	handlers   map[command.Kind]handler.Handler
	dispatches *metrics.Dispatch
}

// New creates a Dispatcher.
func New(secret []byte, auth *githubauth.Authenticator, gen guidance.Generator) *Dispatcher {
	return &Dispatcher{
		secret:    secret,
		auth:      auth,
		generator: gen,
		handlers: map[command.Kind]handler.Handler{
			command.KindRun:    handler.Run{},
			command.KindStatus: handler.Status{},
			command.KindHelp:   handler.Help{},
		},
		dispatches: metrics.NewDispatch("ralph"),
	}
}

// ServeHTTP implements the webhook endpoint. Statuses: 405 for non-POST,
// 401 for a bad signature, 400 for a payload missing required ids, and 200
// for everything handled — including deliveries that are legitimate but
// irrelevant, which get an "ignored" body rather than an error status.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx).With("delivery", github.DeliveryID(r))
	ctx = clog.WithLogger(ctx, log)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	// Verification comes before anything else: the signature is the only
	// provenance the rest of the dispatch rests on.
	sig := r.Header.Get(github.SHA256SignatureHeader)
	if !githubauth.VerifySignature(d.secret, sig, body) {
		log.Warn("Rejecting delivery with invalid signature")
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeUnauthorized)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	ev, err := parseEvent(github.WebHookType(r), body)
	if errors.Is(err, errUnsupported) {
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeIgnored)
		fmt.Fprintln(w, "ignored")
		return
	}
	if err != nil {
		log.With("error", err).Warn("Rejecting malformed delivery")
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeMalformed)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Only newly created comments trigger work; edits and deletions are
	// silent no-ops.
	if ev.action != "created" {
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeIgnored)
		fmt.Fprintln(w, "ignored")
		return
	}

	cmd, ok := command.Parse(ev.commentBody)
	if !ok {
		// Not addressed to us. Distinct from an error response.
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeIgnored)
		fmt.Fprintln(w, "ignored")
		return
	}

	log = log.With("repo", ev.owner+"/"+ev.repo).
		With("issue", ev.issueNumber).
		With("command", cmd.Name).
		With("sender", ev.sender)
	ctx = clog.WithLogger(ctx, log)

	// Authenticate. Failure here is terminal for the event: no reply is
	// attempted, and the failure surfaces only as an HTTP status.
	gh, err := d.auth.InstallationClient(ctx, ev.installationID)
	if err != nil {
		log.With("error", err).Error("Authentication failed")
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeErrored)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	d.dispatch(ctx, gh, ev, cmd)
	fmt.Fprintln(w, "ok")
}

// dispatch runs the post-authentication lifecycle. From the processing
// reaction onward the user is guaranteed some reply comment, even on
// unexpected internal failure.
func (d *Dispatcher) dispatch(ctx context.Context, gh *github.Client, ev *event, cmd command.Command) {
	log := clog.FromContext(ctx)

	d.react(ctx, gh, ev, reactionProcessing)

	text, err := d.route(ctx, gh, ev, cmd)
	if err != nil {
		log.With("error", err).Error("Command failed")
		text = errorReply(cmd, err)
	}

	if _, _, err := gh.Issues.CreateComment(ctx, ev.owner, ev.repo, ev.issueNumber, &github.IssueComment{
		Body: github.Ptr(text),
	}); err != nil {
		// Nothing further we can surface to the user.
		log.With("error", err).Error("Failed to post reply comment")
		d.dispatches.RecordOutcome(ctx, metrics.OutcomeErrored)
		return
	}

	d.react(ctx, gh, ev, reactionDone)
	d.dispatches.RecordOutcome(ctx, metrics.OutcomeReplied)
}

// route resolves the branch, picks the handler, and produces the reply body.
func (d *Dispatcher) route(ctx context.Context, gh *github.Client, ev *event, cmd command.Command) (string, error) {
	h, ok := d.handlers[cmd.Kind]
	if !ok {
		return fmt.Sprintf("Unknown command `%s`. Try `/ralph help`.", cmd.Name), nil
	}
	if cmd.Kind == command.KindHelp {
		// Help needs no branch and no further I/O.
		return h.Handle(ctx, &handler.Context{Owner: ev.owner, Repo: ev.repo})
	}

	branch, hasBranch, err := d.resolveBranch(ctx, gh, ev)
	if err != nil {
		return "", err
	}
	if !hasBranch {
		switch cmd.Kind {
		case command.KindStatus:
			branch = defaultBranch
		case command.KindRun:
			return "`/ralph run` needs a pull request: comment on a PR (or an issue with a linked PR) so I know which branch to read.", nil
		}
	}

	return h.Handle(ctx, &handler.Context{
		Owner:     ev.owner,
		Repo:      ev.repo,
		Branch:    branch,
		Args:      cmd.Args,
		Source:    prd.NewFetcher(gh),
		Generator: d.generator,
	})
}

// resolveBranch determines the acting branch. An inline pull request (review
// comment events) takes precedence; otherwise an issue's linked pull request
// is followed with one extra fetch. hasBranch is false when the comment has
// no pull request context at all.
func (d *Dispatcher) resolveBranch(ctx context.Context, gh *github.Client, ev *event) (branch string, hasBranch bool, err error) {
	if ev.prHeadRef != "" {
		return ev.prHeadRef, true, nil
	}
	if !ev.hasPRLink {
		return "", false, nil
	}
	pr, _, err := gh.PullRequests.Get(ctx, ev.owner, ev.repo, ev.issueNumber)
	if err != nil {
		return "", false, fmt.Errorf("fetching linked pull request #%d: %w", ev.issueNumber, err)
	}
	return pr.GetHead().GetRef(), true, nil
}

// react posts a reaction on the triggering comment. Reactions are cosmetic:
// failure is logged and never blocks the reply.
func (d *Dispatcher) react(ctx context.Context, gh *github.Client, ev *event, content string) {
	var err error
	if ev.onReviewThread {
		_, _, err = gh.Reactions.CreatePullRequestCommentReaction(ctx, ev.owner, ev.repo, ev.commentID, content)
	} else {
		_, _, err = gh.Reactions.CreateIssueCommentReaction(ctx, ev.owner, ev.repo, ev.commentID, content)
	}
	if err != nil {
		clog.FromContext(ctx).With("reaction", content).With("error", err).Warn("Failed to post reaction")
	}
}

// errorReply converts a handler failure into the user-visible error comment.
// The underlying error text is included verbatim so the requester can act on
// upstream quota or format problems.
func errorReply(cmd command.Command, err error) string {
	return fmt.Sprintf("⚠️ `/ralph %s` failed:\n\n```\n%v\n```", cmd.Name, err)
}
