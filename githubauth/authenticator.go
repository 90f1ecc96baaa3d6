/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package githubauth authenticates the service to GitHub in both directions:
// inbound webhook signature verification and outbound GitHub App installation
// tokens.
package githubauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
)

// Authenticator mints installation-scoped GitHub clients from GitHub App
// credentials. The app's private key is parsed once at construction; the
// installation token exchange happens per call so that no token outlives a
// single dispatch.
type Authenticator struct {
	apps    *ghinstallation.AppsTransport
	baseURL string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithBaseURL points the authenticator at a GitHub API root other than
// api.github.com, e.g. a GitHub Enterprise host or a test server.
func WithBaseURL(url string) Option {
	return func(a *Authenticator) {
		a.baseURL = strings.TrimSuffix(url, "/")
	}
}

// NewAuthenticator creates an Authenticator for the given App id and PEM
// encoded RSA private key. An unparseable key fails here rather than on the
// first dispatch.
func NewAuthenticator(appID int64, privateKeyPEM []byte, opts ...Option) (*Authenticator, error) {
	apps, err := ghinstallation.NewAppsTransport(http.DefaultTransport, appID, privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}
	a := &Authenticator{apps: apps}
	for _, opt := range opts {
		opt(a)
	}
	if a.baseURL != "" {
		apps.BaseURL = a.baseURL + "/api/v3"
	}
	return a, nil
}

// InstallationClient exchanges a freshly signed App JWT for an installation
// token scoped to installationID and returns a GitHub client that uses it.
// The exchange is forced eagerly so that credential failures surface before
// any API call is attempted. Each call builds a new transport: tokens are
// scoped to one dispatch and never cached across events.
func (a *Authenticator) InstallationClient(ctx context.Context, installationID int64) (*github.Client, error) {
	tr := ghinstallation.NewFromAppsTransport(a.apps, installationID)
	if _, err := tr.Token(ctx); err != nil {
		return nil, fmt.Errorf("exchanging installation token: %w", err)
	}
	gh := github.NewClient(&http.Client{Transport: tr})
	if a.baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(a.baseURL, a.baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring API base URL: %w", err)
		}
	}
	return gh, nil
}
