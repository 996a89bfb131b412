package build

import (
	"SizeCompare/internal/execx"
	"SizeCompare/internal/plan"
	"SizeCompare/internal/waf"
	"SizeCompare/internal/workspace"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// fakeTree records every collaborator call and simulates waf by writing
// an artifact per compiled target into the workspace build dir.
type fakeTree struct {
	calls       []string
	failOn      string
	overlayData string
	staleSeen   bool
}

func (f *fakeTree) record(s string) error {
	f.calls = append(f.calls, s)
	if f.failOn != "" && strings.HasPrefix(s, f.failOn) {
		return &execx.ToolError{Cmd: execx.Cmd{Name: "waf"}, ExitCode: 1, Output: "boom", Err: errors.New("exit status 1")}
	}
	return nil
}

func (f *fakeTree) Checkout(_ context.Context, _ string, rev string) error {
	return f.record("checkout " + rev)
}

func (f *fakeTree) SyncSubmodules(context.Context, string) error {
	return f.record("submodules")
}

func (f *fakeTree) Configure(_ context.Context, dir, board string, opts waf.Options) error {
	if opts.ExtraHwdef != "" {
		b, err := os.ReadFile(opts.ExtraHwdef)
		if err != nil {
			return err
		}
		f.overlayData = string(b)
	}
	if opts.Bootloader {
		_, err := os.Stat(filepath.Join(dir, "build", board, "modules", "DroneCAN", "libcanard", "dsdlc_generated"))
		f.staleSeen = err == nil
	}
	return f.record(fmt.Sprintf("configure %s bl=%v j=%d", board, opts.Bootloader, opts.Jobs))
}

func (f *fakeTree) Compile(_ context.Context, dir, target string) error {
	if err := f.record("compile " + target); err != nil {
		return err
	}
	binDir := filepath.Join(dir, "build", "CubeOrange", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	stale := filepath.Join(dir, "build", "CubeOrange", "modules", "DroneCAN", "libcanard", "dsdlc_generated")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(binDir, target+".bin"), []byte(target), 0o600)
}

func (f *fakeTree) CopyTree(_ context.Context, src, dst string, _ ...string) error {
	f.calls = append(f.calls, "copy")
	return filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, b, 0o600)
	})
}

func newRunner(f *fakeTree, blacklist map[string]bool, tmp string) *Runner {
	return &Runner{VCS: f, Tool: f, Copier: f, ConsistentBuilds: true, BootloaderBlacklist: blacklist, TempDir: tmp}
}

func TestRunner_Run_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		vehicles  []string
		blacklist map[string]bool
		failOn    string
		jobs      int
		wantErr   bool
		wantCalls []string
		wantBins  []string
	}{
		{
			name:     "vehicles one at a time then copy",
			vehicles: []string{"plane", "copter"},
			jobs:     4,
			wantCalls: []string{
				"checkout rev", "submodules", "configure CubeOrange bl=false j=4",
				"compile plane", "compile copter", "copy",
			},
			wantBins: []string{"copter.bin", "plane.bin"},
		},
		{
			name:     "bootloader gets its own configure pass",
			vehicles: []string{"bootloader", "plane"},
			wantCalls: []string{
				"checkout rev", "submodules", "configure CubeOrange bl=false j=0",
				"compile plane", "configure CubeOrange bl=true j=0", "compile bootloader", "copy",
			},
			wantBins: []string{"bootloader.bin", "plane.bin"},
		},
		{
			name:      "blacklisted board skips bootloader",
			vehicles:  []string{"bootloader", "plane"},
			blacklist: map[string]bool{"CubeOrange": true},
			wantCalls: []string{
				"checkout rev", "submodules", "configure CubeOrange bl=false j=0", "compile plane", "copy",
			},
			wantBins: []string{"plane.bin"},
		},
		{
			name:      "configure failure aborts the task",
			vehicles:  []string{"plane"},
			failOn:    "configure",
			wantErr:   true,
			wantCalls: []string{"checkout rev", "submodules", "configure CubeOrange bl=false j=0"},
		},
		{
			name:      "checkout failure aborts before building",
			vehicles:  []string{"plane"},
			failOn:    "checkout",
			wantErr:   true,
			wantCalls: []string{"checkout rev"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			ws := &workspace.Workspace{Dir: filepath.Join(root, "src")}
			if err := os.MkdirAll(filepath.Join(ws.Dir, "build", "stale"), 0o755); err != nil {
				t.Fatal(err)
			}
			task := plan.Task{Board: "CubeOrange", Role: plan.Candidate, Revision: "rev", OutputDir: filepath.Join(root, "out"), Vehicles: tt.vehicles}
			if err := os.MkdirAll(filepath.Join(task.OutputDir, "leftover"), 0o755); err != nil {
				t.Fatal(err)
			}

			f := &fakeTree{failOn: tt.failOn}
			err := newRunner(f, tt.blacklist, root).Run(context.Background(), task, ws, tt.jobs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr && execx.Output(err) != "boom" {
				t.Fatalf("tool output not surfaced: %v", err)
			}
			if !reflect.DeepEqual(f.calls, tt.wantCalls) {
				t.Fatalf("calls:\n got:  %v\n want: %v", f.calls, tt.wantCalls)
			}
			if f.staleSeen {
				t.Fatalf("dsdlc_generated present during bootloader configure")
			}
			if _, err := os.Stat(filepath.Join(task.OutputDir, "leftover")); !os.IsNotExist(err) {
				t.Fatalf("stale output dir not cleared")
			}
			if tt.wantErr {
				return
			}
			if _, err := os.Stat(filepath.Join(task.OutputDir, "stale")); !os.IsNotExist(err) {
				t.Fatalf("workspace build dir not cleared before configure")
			}
			entries, err := os.ReadDir(filepath.Join(task.OutputDir, "CubeOrange", "bin"))
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Name())
			}
			if !reflect.DeepEqual(got, tt.wantBins) {
				t.Fatalf("copied bins: got %v want %v", got, tt.wantBins)
			}
		})
	}
}

func TestRunner_PassesCombinedOverlay(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.dat")
	b := filepath.Join(root, "b.dat")
	if err := os.WriteFile(a, []byte("define A 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("define B 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tmp := filepath.Join(root, "tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		t.Fatal(err)
	}

	f := &fakeTree{}
	task := plan.Task{Board: "CubeOrange", Revision: "rev", OutputDir: filepath.Join(root, "out"), Vehicles: []string{"plane"}, Overlays: []string{a, b}}
	ws := &workspace.Workspace{Dir: filepath.Join(root, "src")}
	if err := newRunner(f, nil, tmp).Run(context.Background(), task, ws, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.overlayData != "define A 1\ndefine B 2\n" {
		t.Fatalf("overlay content: %q", f.overlayData)
	}
	left, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("combined overlay not removed: %v", left)
	}
}

func TestCombineOverlays(t *testing.T) {
	p, err := CombineOverlays(t.TempDir(), nil)
	if err != nil || p != "" {
		t.Fatalf("no overlays: path=%q err=%v", p, err)
	}
	if _, err := CombineOverlays(t.TempDir(), []string{"/does/not/exist.dat"}); err == nil {
		t.Fatalf("expected error for missing overlay")
	}
}
