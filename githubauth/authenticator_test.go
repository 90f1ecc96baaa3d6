/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package githubauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ralph-bot/ralph/githubauth"
)

// testPrivateKey returns a freshly generated PEM-encoded RSA key.
func testPrivateKey(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestNewAuthenticator(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		if _, err := githubauth.NewAuthenticator(1234, testPrivateKey(t)); err != nil {
			t.Errorf("NewAuthenticator() error = %v, wanted nil", err)
		}
	})

	t.Run("garbage key fails at construction", func(t *testing.T) {
		if _, err := githubauth.NewAuthenticator(1234, []byte("not a pem block")); err == nil {
			t.Error("NewAuthenticator() error = nil, wanted parse failure")
		}
	})
}

func TestInstallationClient(t *testing.T) {
	key := testPrivateKey(t)

	t.Run("exchanges token and scopes the client", func(t *testing.T) {
		var sawBearer bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/api/v3/app/installations/42/access_tokens" {
				sawBearer = strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintf(w, `{"token":"ghs_testtoken","expires_at":%q}`, time.Now().Add(time.Hour).Format(time.RFC3339))
				return
			}
			if r.URL.Path == "/api/v3/repos/octo/demo/issues/7" {
				if got := r.Header.Get("Authorization"); got != "token ghs_testtoken" {
					t.Errorf("API call Authorization: got = %q, wanted installation token", got)
				}
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"number":7}`)
				return
			}
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		auth, err := githubauth.NewAuthenticator(1234, key, githubauth.WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewAuthenticator() error = %v", err)
		}
		gh, err := auth.InstallationClient(context.Background(), 42)
		if err != nil {
			t.Fatalf("InstallationClient() error = %v", err)
		}
		if !sawBearer {
			t.Error("token exchange: got no Bearer assertion, wanted a signed App JWT")
		}
		issue, _, err := gh.Issues.Get(context.Background(), "octo", "demo", 7)
		if err != nil {
			t.Fatalf("Issues.Get() error = %v", err)
		}
		if issue.GetNumber() != 7 {
			t.Errorf("issue number: got = %d, wanted = 7", issue.GetNumber())
		}
	})

	t.Run("failed exchange is fatal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		auth, err := githubauth.NewAuthenticator(1234, key, githubauth.WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewAuthenticator() error = %v", err)
		}
		if _, err := auth.InstallationClient(context.Background(), 42); err == nil {
			t.Error("InstallationClient() error = nil, wanted exchange failure")
		}
	})
}
