// Package waf drives the firmware build tool.
package waf

import (
	"SizeCompare/internal/execx"
	"SizeCompare/internal/logx"
	"context"
	"os"
	"path/filepath"
	"strconv"
)

// consistentEnv pins the version strings waf would otherwise bake into the
// binaries from git.
var consistentEnv = []string{
	"CHIBIOS_GIT_VERSION=12345678",
	"GIT_VERSION=abcdef",
	"GIT_VERSION_INT=15",
}

type Options struct {
	ConsistentBuilds bool
	// ExtraHwdef is an optional overlay file passed to configure.
	ExtraHwdef string
	// Jobs of zero leaves the job count to waf.
	Jobs       int
	Bootloader bool
}

type Waf struct {
	Log *logx.Logger

	Exec func(ctx context.Context, c execx.Cmd) (string, error)
}

func New(log *logx.Logger) *Waf {
	return &Waf{Log: log}
}

// ConfigureArgs returns the waf arguments for configuring board.
func ConfigureArgs(board string, opts Options) []string {
	args := []string{"configure", "--board", board}
	if opts.ConsistentBuilds {
		args = append(args, "--consistent-builds")
	}
	if opts.ExtraHwdef != "" {
		args = append(args, "--extra-hwdef", opts.ExtraHwdef)
	}
	if opts.Jobs > 0 {
		args = append(args, "-j", strconv.Itoa(opts.Jobs))
	}
	if opts.Bootloader {
		args = append(args, "--bootloader")
	}
	return args
}

func (w *Waf) Configure(ctx context.Context, dir, board string, opts Options) error {
	return w.run(ctx, dir, ConfigureArgs(board, opts))
}

// Compile builds one waf target (a vehicle name) in dir.
func (w *Waf) Compile(ctx context.Context, dir, target string) error {
	return w.run(ctx, dir, []string{target})
}

func (w *Waf) run(ctx context.Context, dir string, args []string) error {
	c := execx.Cmd{Name: Binary(dir), Args: args, Dir: dir, Env: consistentEnv}
	w.Log.Infof("Running (%s) in (%s)", c, dir)
	var err error
	if w.Exec != nil {
		_, err = w.Exec(ctx, c)
	} else {
		_, err = execx.Run(ctx, c)
	}
	return err
}

// Binary locates waf inside the source tree rooted at dir.
func Binary(dir string) string {
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(filepath.Join(dir, "waf")); err == nil {
		return "./waf"
	}
	return "./" + filepath.Join("modules", "waf", "waf-light")
}
