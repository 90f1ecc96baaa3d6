/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the Ralph webhook service: a GitHub App endpoint that
// turns /ralph comments on PRs and issues into guidance replies.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ralph-bot/ralph/dispatch"
	"github.com/ralph-bot/ralph/githubauth"
	"github.com/ralph-bot/ralph/guidance"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Port        int `env:"PORT,default=8080"`
	MetricsPort int `env:"METRICS_PORT,default=2112"`

	// GitHub App identity.
	WebhookSecret string `env:"GITHUB_WEBHOOK_SECRET,required"`
	AppID         int64  `env:"GITHUB_APP_ID,required"`
	PrivateKey    string `env:"GITHUB_APP_PRIVATE_KEY,required"`

	// Generative-text service.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY,required"`
	Model           string `env:"ANTHROPIC_MODEL,default=claude-sonnet-4-20250514"`
	MaxOutputTokens int64  `env:"MAX_OUTPUT_TOKENS,default=4096"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	auth, err := githubauth.NewAuthenticator(cfg.AppID, []byte(cfg.PrivateKey))
	if err != nil {
		clog.FatalContextf(ctx, "configuring GitHub App credentials: %v", err)
	}

	generator := guidance.NewClaude(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxOutputTokens)
	dispatcher := dispatch.New([]byte(cfg.WebhookSecret), auth, generator)

	go func() {
		mmux := http.NewServeMux()
		mmux.Handle("/metrics", promhttp.Handler())
		clog.InfoContextf(ctx, "Serving metrics on port %d", cfg.MetricsPort)
		//nolint:gosec // metrics listener, platform enforces request ceilings
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), mmux); err != nil {
			clog.FatalContextf(ctx, "metrics server failed: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/webhook", dispatcher)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			clog.ErrorContextf(ctx, "shutting down: %v", err)
		}
	}()

	clog.InfoContextf(ctx, "Starting Ralph webhook service on port %d (model %s)", cfg.Port, cfg.Model)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}
