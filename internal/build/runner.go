// Package build runs one task's checkout/configure/compile/copy sequence
// inside a workspace.
package build

import (
	"SizeCompare/definitions"
	"SizeCompare/internal/logx"
	"SizeCompare/internal/plan"
	"SizeCompare/internal/waf"
	"SizeCompare/internal/workspace"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type VCS interface {
	Checkout(ctx context.Context, dir, revision string) error
	SyncSubmodules(ctx context.Context, dir string) error
}

type Tool interface {
	Configure(ctx context.Context, dir, board string, opts waf.Options) error
	Compile(ctx context.Context, dir, target string) error
}

type Runner struct {
	VCS    VCS
	Tool   Tool
	Copier workspace.Copier

	ConsistentBuilds    bool
	BootloaderBlacklist map[string]bool
	// TempDir holds combined overlay files; empty means os.TempDir().
	TempDir string
	Log     *logx.Logger
}

// Run builds t inside ws and copies the build tree to t.OutputDir.
// jobs of zero leaves the job count to the build tool.
func (r *Runner) Run(ctx context.Context, t plan.Task, ws *workspace.Workspace, jobs int) error {
	r.Log.Infof("Building %s in %s", t, ws.Dir)

	if err := os.RemoveAll(t.OutputDir); err != nil {
		return fmt.Errorf("clear %s: %w", t.OutputDir, err)
	}
	if err := r.VCS.Checkout(ctx, ws.Dir, t.Revision); err != nil {
		return fmt.Errorf("checkout %s: %w", t.Revision, err)
	}
	if err := r.VCS.SyncSubmodules(ctx, ws.Dir); err != nil {
		return fmt.Errorf("submodule sync: %w", err)
	}
	if err := os.RemoveAll(ws.BuildDir()); err != nil {
		return fmt.Errorf("clear build dir: %w", err)
	}

	hwdef, err := CombineOverlays(r.TempDir, t.Overlays)
	if err != nil {
		return err
	}
	if hwdef != "" {
		defer os.Remove(hwdef)
	}

	opts := waf.Options{ConsistentBuilds: r.ConsistentBuilds, ExtraHwdef: hwdef, Jobs: jobs}
	if err := r.Tool.Configure(ctx, ws.Dir, t.Board, opts); err != nil {
		return fmt.Errorf("configure %s: %w", t.Board, err)
	}

	// waf cannot build several vehicles in one invocation
	wantBootloader := false
	for _, v := range t.Vehicles {
		if v == definitions.BootloaderVehicle {
			wantBootloader = true
			continue
		}
		if err := r.Tool.Compile(ctx, ws.Dir, v); err != nil {
			return fmt.Errorf("build %s for %s: %w", v, t.Board, err)
		}
	}

	if wantBootloader && !r.BootloaderBlacklist[t.Board] {
		// a stale dsdlc_generated from the vehicle builds breaks the bootloader build
		stale := filepath.Join(ws.BuildDir(), t.Board, "modules", "DroneCAN", "libcanard", "dsdlc_generated")
		r.Log.Infof("Removing (%s)", stale)
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("clear %s: %w", stale, err)
		}
		opts.Bootloader = true
		if err := r.Tool.Configure(ctx, ws.Dir, t.Board, opts); err != nil {
			return fmt.Errorf("configure bootloader %s: %w", t.Board, err)
		}
		if err := r.Tool.Compile(ctx, ws.Dir, definitions.BootloaderVehicle); err != nil {
			return fmt.Errorf("build bootloader for %s: %w", t.Board, err)
		}
	}

	if err := os.MkdirAll(t.OutputDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", t.OutputDir, err)
	}
	if err := r.Copier.CopyTree(ctx, ws.BuildDir(), t.OutputDir); err != nil {
		return fmt.Errorf("copy build output: %w", err)
	}
	return nil
}
