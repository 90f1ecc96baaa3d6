/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package prd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v84/github"
)

// Well-known paths inside the target repository. Absence of either file is a
// normal condition, not a misconfiguration.
const (
	DocumentPath = "scripts/ralph/prd.json"
	ProgressPath = "scripts/ralph/progress.txt"
)

// ErrMalformed marks a task document that exists but does not decode. This is
// distinct from the file being absent: callers surface it as a format error
// rather than a "no PRD" hint.
var ErrMalformed = errors.New("malformed task document")

// Source is the read surface handlers need. *Fetcher implements it.
type Source interface {
	// Document fetches and decodes the task document at ref.
	// A missing file returns (nil, nil).
	Document(ctx context.Context, owner, repo, ref string) (*Document, error)
	// ProgressLog fetches the raw progress log at ref.
	// A missing file returns ok=false with no error.
	ProgressLog(ctx context.Context, owner, repo, ref string) (log string, ok bool, err error)
}

// Fetcher reads the task document and progress log through the GitHub
// contents API.
type Fetcher struct {
	gh *github.Client
}

// NewFetcher returns a Fetcher backed by the given client.
func NewFetcher(gh *github.Client) *Fetcher {
	return &Fetcher{gh: gh}
}

// Document implements Source.
func (f *Fetcher) Document(ctx context.Context, owner, repo, ref string) (*Document, error) {
	raw, ok, err := f.file(ctx, owner, repo, DocumentPath, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformed, DocumentPath, err)
	}
	return &doc, nil
}

// ProgressLog implements Source.
func (f *Fetcher) ProgressLog(ctx context.Context, owner, repo, ref string) (string, bool, error) {
	return f.file(ctx, owner, repo, ProgressPath, ref)
}

// file fetches one file's decoded content at ref. ok is false when the path
// does not exist at that ref; any other failure is an error.
func (f *Fetcher) file(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	fc, _, resp, err := f.gh.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("fetching %s@%s: %w", path, ref, err)
	}
	if fc == nil {
		// The path resolved to a directory.
		return "", false, nil
	}
	content, err := fc.GetContent()
	if err != nil {
		return "", false, fmt.Errorf("decoding %s@%s: %w", path, ref, err)
	}
	return content, true, nil
}
