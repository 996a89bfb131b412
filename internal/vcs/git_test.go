package vcs

import (
	"SizeCompare/internal/execx"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
)

type call struct {
	dir  string
	args []string
}

type fakeGit struct {
	calls   []call
	outputs map[string]string
	fails   map[string]int
}

func (f *fakeGit) exec(_ context.Context, c execx.Cmd) (string, error) {
	f.calls = append(f.calls, call{dir: c.Dir, args: c.Args})
	key := strings.Join(c.Args, " ")
	if f.fails[key] > 0 {
		f.fails[key]--
		return "fatal: nope\n", &execx.ToolError{Cmd: c, ExitCode: 128, Output: "fatal: nope\n", Err: errors.New("exit status 128")}
	}
	return f.outputs[key], nil
}

func newTestGit(f *fakeGit, retries uint) *Git {
	return &Git{
		Retries:    retries,
		NewBackOff: func() backoff.BackOff { return &backoff.ZeroBackOff{} },
		Exec:       f.exec,
	}
}

func TestCheckout(t *testing.T) {
	f := &fakeGit{}
	g := newTestGit(f, 0)
	if err := g.Checkout(context.Background(), "/ws/thread-0", "abc123"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	want := []call{{dir: "/ws/thread-0", args: []string{"checkout", "abc123"}}}
	if !reflect.DeepEqual(f.calls, want) {
		t.Fatalf("calls: got %+v want %+v", f.calls, want)
	}
	if err := g.Checkout(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error for empty revision")
	}
}

func TestSyncSubmodules_Retries(t *testing.T) {
	tests := []struct {
		name      string
		retries   uint
		failures  int
		wantErr   bool
		wantCalls int
	}{
		{name: "first attempt succeeds", retries: 2, failures: 0, wantCalls: 1},
		{name: "recovers within budget", retries: 2, failures: 2, wantCalls: 3},
		{name: "gives up after budget", retries: 1, failures: 5, wantErr: true, wantCalls: 2},
		{name: "no retries", retries: 0, failures: 1, wantErr: true, wantCalls: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGit{fails: map[string]int{"submodule update --recursive": tt.failures}}
			err := newTestGit(f, tt.retries).SyncSubmodules(context.Background(), "src")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr && execx.Output(err) == "" {
				t.Fatalf("tool output lost from error %v", err)
			}
			if len(f.calls) != tt.wantCalls {
				t.Fatalf("calls: got %d want %d", len(f.calls), tt.wantCalls)
			}
		})
	}
}

func TestMergeBase(t *testing.T) {
	f := &fakeGit{outputs: map[string]string{"merge-base pr master": "0123abcd\n"}}
	rev, err := newTestGit(f, 0).MergeBase(context.Background(), "", "pr", "master")
	if err != nil {
		t.Fatal(err)
	}
	if rev != "0123abcd" {
		t.Fatalf("rev: got %q", rev)
	}

	f = &fakeGit{outputs: map[string]string{}}
	if _, err := newTestGit(f, 0).MergeBase(context.Background(), "", "pr", "master"); err == nil {
		t.Fatalf("expected error on empty output")
	}
}

func TestCurrentBranchOrShortHash(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeGit
		want string
	}{
		{
			name: "on a branch",
			fake: &fakeGit{outputs: map[string]string{"symbolic-ref --short HEAD": "pr-feature\n"}},
			want: "pr-feature",
		},
		{
			name: "detached head falls back to short hash",
			fake: &fakeGit{
				outputs: map[string]string{"rev-parse --short HEAD": "deadbee\n"},
				fails:   map[string]int{"symbolic-ref --short HEAD": 1},
			},
			want: "deadbee",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestGit(tt.fake, 0).CurrentBranchOrShortHash(context.Background(), "")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
