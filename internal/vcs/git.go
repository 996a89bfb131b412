// Package vcs drives git in the primary tree or any workspace copy of it.
package vcs

import (
	"SizeCompare/internal/execx"
	"SizeCompare/internal/logx"
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
)

type Git struct {
	// Retries bounds how often a failed submodule sync is retried.
	Retries uint
	Log     *logx.Logger

	// NewBackOff and Exec are replaceable in tests.
	NewBackOff func() backoff.BackOff
	Exec       func(ctx context.Context, c execx.Cmd) (string, error)
}

func New(retries uint, log *logx.Logger) *Git {
	return &Git{Retries: retries, Log: log}
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	c := execx.Cmd{Name: "git", Args: args, Dir: dir}
	g.Log.Infof("Running (%s) in (%s)", c, displayDir(dir))
	if g.Exec != nil {
		return g.Exec(ctx, c)
	}
	return execx.Run(ctx, c)
}

func (g *Git) retry(ctx context.Context, what string, op func() error) error {
	var b backoff.BackOff
	if g.NewBackOff != nil {
		b = g.NewBackOff()
	} else {
		b = backoff.NewExponentialBackOff()
	}
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.Retries)), ctx)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err != nil && uint(attempt) <= g.Retries {
			g.Log.Warnf("%s failed (attempt %d), retrying: %v", what, attempt, err)
		}
		return err
	}, b)
}

func (g *Git) Checkout(ctx context.Context, dir, revision string) error {
	if revision == "" {
		return fmt.Errorf("checkout: empty revision")
	}
	_, err := g.run(ctx, dir, "checkout", revision)
	return err
}

// SyncSubmodules brings nested checkouts in line with the current revision.
func (g *Git) SyncSubmodules(ctx context.Context, dir string) error {
	return g.retry(ctx, "submodule update", func() error {
		_, err := g.run(ctx, dir, "submodule", "update", "--recursive")
		return err
	})
}

func (g *Git) MergeBase(ctx context.Context, dir, a, b string) (string, error) {
	out, err := g.run(ctx, dir, "merge-base", a, b)
	if err != nil {
		return "", err
	}
	rev := strings.TrimSpace(out)
	if rev == "" {
		return "", fmt.Errorf("merge-base %s %s: empty output", a, b)
	}
	return rev, nil
}

// CurrentBranchOrShortHash names HEAD, using a short hash when detached.
func (g *Git) CurrentBranchOrShortHash(ctx context.Context, dir string) (string, error) {
	if out, err := g.run(ctx, dir, "symbolic-ref", "--short", "HEAD"); err == nil {
		if name := strings.TrimSpace(out); name != "" {
			return name, nil
		}
	}
	out, err := g.run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
