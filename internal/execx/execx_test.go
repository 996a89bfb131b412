package execx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRun_TableDriven(t *testing.T) {
	tests := []struct {
		name       string
		cmd        Cmd
		wantErr    bool
		wantExit   int
		wantOutput string
	}{
		{
			name:       "captures stdout and stderr",
			cmd:        Cmd{Name: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}},
			wantOutput: "out\nerr\n",
		},
		{
			name:       "non-zero exit is a ToolError with output",
			cmd:        Cmd{Name: "sh", Args: []string{"-c", "echo broken; exit 3"}},
			wantErr:    true,
			wantExit:   3,
			wantOutput: "broken\n",
		},
		{
			name:     "missing binary is a ToolError",
			cmd:      Cmd{Name: "definitely-not-a-real-tool-xyz"},
			wantErr:  true,
			wantExit: -1,
		},
		{
			name:       "extra env is visible",
			cmd:        Cmd{Name: "sh", Args: []string{"-c", "echo $SCB_TEST_VAR"}, Env: []string{"SCB_TEST_VAR=hello"}},
			wantOutput: "hello\n",
		},
		{
			name:       "runs in Dir",
			cmd:        Cmd{Name: "pwd", Dir: "/"},
			wantOutput: "/\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(context.Background(), tt.cmd)
			if tt.wantErr {
				var te *ToolError
				if !errors.As(err, &te) {
					t.Fatalf("expected *ToolError, got %v", err)
				}
				if te.ExitCode != tt.wantExit {
					t.Fatalf("exit code: got %d want %d", te.ExitCode, tt.wantExit)
				}
				if Output(err) != tt.wantOutput {
					t.Fatalf("Output(err): got %q want %q", Output(err), tt.wantOutput)
				}
				if !strings.Contains(err.Error(), tt.cmd.Name) {
					t.Fatalf("error %q does not name the tool", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.wantOutput {
				t.Fatalf("output: got %q want %q", out, tt.wantOutput)
			}
		})
	}
}
