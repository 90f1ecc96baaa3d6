/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v84/github"
)

// errUnsupported marks deliveries for event types the service does not
// handle. These are legitimate traffic and answer 200, not an error status.
var errUnsupported = errors.New("unsupported event type")

// event is the normalized view of one comment delivery, covering both issue
// comments (which may belong to a PR via the issue's pull request link) and
// PR review comments (which carry the PR inline).
type event struct {
	action         string
	owner          string
	repo           string
	installationID int64
	commentID      int64
	commentBody    string
	sender         string
	issueNumber    int

	// prHeadRef is the head branch when the payload carries the pull
	// request inline; empty otherwise.
	prHeadRef string
	// hasPRLink is set when the comment's issue links to a pull request.
	hasPRLink bool
	// onReviewThread distinguishes review comments, which use a different
	// reaction endpoint than issue comments.
	onReviewThread bool
}

// parseEvent normalizes a webhook delivery. It returns errUnsupported for
// event types outside the comment surface, and a plain error when a supported
// payload is missing required identifiers.
func parseEvent(eventType string, payload []byte) (*event, error) {
	switch eventType {
	case "issue_comment", "pull_request_review_comment":
	default:
		return nil, errUnsupported
	}

	raw, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", eventType, err)
	}

	ev := &event{}
	switch e := raw.(type) {
	case *github.IssueCommentEvent:
		ev.action = e.GetAction()
		ev.owner = e.GetRepo().GetOwner().GetLogin()
		ev.repo = e.GetRepo().GetName()
		ev.installationID = e.GetInstallation().GetID()
		ev.commentID = e.GetComment().GetID()
		ev.commentBody = e.GetComment().GetBody()
		ev.sender = e.GetSender().GetLogin()
		ev.issueNumber = e.GetIssue().GetNumber()
		ev.hasPRLink = e.GetIssue().IsPullRequest()

	case *github.PullRequestReviewCommentEvent:
		ev.action = e.GetAction()
		ev.owner = e.GetRepo().GetOwner().GetLogin()
		ev.repo = e.GetRepo().GetName()
		ev.installationID = e.GetInstallation().GetID()
		ev.commentID = e.GetComment().GetID()
		ev.commentBody = e.GetComment().GetBody()
		ev.sender = e.GetSender().GetLogin()
		ev.issueNumber = e.GetPullRequest().GetNumber()
		ev.prHeadRef = e.GetPullRequest().GetHead().GetRef()
		ev.onReviewThread = true
	}

	if ev.owner == "" || ev.repo == "" {
		return nil, errors.New("payload missing repository identifiers")
	}
	if ev.installationID == 0 {
		return nil, errors.New("payload missing installation id")
	}
	if ev.commentID == 0 || ev.issueNumber == 0 {
		return nil, errors.New("payload missing comment or issue id")
	}
	return ev, nil
}
