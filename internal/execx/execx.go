// Package execx runs external tools and keeps their output for failure reports.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external tool invocation.
type Cmd struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ToolError is returned when a tool cannot be started or exits non-zero.
type ToolError struct {
	Cmd      Cmd
	ExitCode int
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	dir := e.Cmd.Dir
	if dir == "" {
		dir = "."
	}
	return fmt.Sprintf("%s (in %s): exit %d: %v", e.Cmd, dir, e.ExitCode, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Output extracts the captured tool output from err, if err carries any.
func Output(err error) string {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Output
	}
	return ""
}

// Run executes c and returns its combined stdout and stderr.
func Run(ctx context.Context, c Cmd) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return out.String(), nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return out.String(), &ToolError{Cmd: c, ExitCode: exitCode, Output: out.String(), Err: err}
}
