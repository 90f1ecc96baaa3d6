/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package githubauth

import "github.com/google/go-github/v84/github"

// VerifySignature reports whether signature is the valid HMAC-SHA256 of body
// under secret, as delivered in GitHub's X-Hub-Signature-256 header
// ("sha256=" + hex digest). The comparison is constant-time. A missing or
// malformed header, a tampered body, or the wrong secret all yield false;
// this function never panics. This is the single authentication boundary for
// inbound webhooks and must fail closed.
func VerifySignature(secret []byte, signature string, body []byte) bool {
	if signature == "" {
		return false
	}
	return github.ValidateSignature(signature, body, secret) == nil
}
