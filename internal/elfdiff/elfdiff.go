// Package elfdiff produces browsable HTML reports of how two ELF
// artifacts differ, using the elf_diff python module.
package elfdiff

import (
	"SizeCompare/internal/compare"
	"SizeCompare/internal/execx"
	"SizeCompare/internal/logx"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

type Differ struct {
	// BinDir holds the arm-none-eabi binutils elf_diff disassembles with.
	BinDir string
	// OutRoot is where ELF_DIFF_<board>_<vehicle> directories are created.
	OutRoot string
	Log     *logx.Logger

	Exec func(ctx context.Context, c execx.Cmd) (string, error)
}

// FindBinDir locates the cross toolchain from arm-none-eabi-g++ on PATH.
func FindBinDir() (string, error) {
	p, err := exec.LookPath("arm-none-eabi-g++")
	if err != nil {
		return "", fmt.Errorf("no arm-none-eabi-g++ on PATH: %w", err)
	}
	return filepath.Dir(p), nil
}

func (d *Differ) Args(p compare.Pair, vehicle string) ([]string, error) {
	base, ok := p.Baseline.Vehicles[vehicle]
	if !ok {
		return nil, fmt.Errorf("%s: no baseline artifact for %s", p.Board, vehicle)
	}
	cand, ok := p.Candidate.Vehicles[vehicle]
	if !ok {
		return nil, fmt.Errorf("%s: no candidate artifact for %s", p.Board, vehicle)
	}
	return []string{
		"-m", "elf_diff",
		"--bin_dir", d.BinDir,
		"--bin_prefix=arm-none-eabi-",
		"--old_alias", fmt.Sprintf("%s %s", p.Baseline.Revision, base.ElfName),
		"--new_alias", fmt.Sprintf("%s %s", p.Candidate.Revision, cand.ElfName),
		"--html_dir", filepath.Join(d.OutRoot, fmt.Sprintf("ELF_DIFF_%s_%s", p.Board, vehicle)),
		base.ElfPath(),
		cand.ElfPath(),
	}, nil
}

// DiffPair runs elf_diff for every vehicle of the pair. A failing vehicle
// is logged and skipped; the count of failures is returned.
func (d *Differ) DiffPair(ctx context.Context, p compare.Pair) int {
	vehicles := make([]string, 0, len(p.Baseline.Vehicles))
	for v := range p.Baseline.Vehicles {
		vehicles = append(vehicles, v)
	}
	sort.Strings(vehicles)

	failures := 0
	for _, v := range vehicles {
		if err := d.diff(ctx, p, v); err != nil {
			failures++
			d.Log.Warnf("elf_diff %s/%s failed: %v", p.Board, v, err)
			if out := execx.Output(err); out != "" {
				d.Log.Warnf("elf_diff output:\n%s", out)
			}
		}
	}
	return failures
}

func (d *Differ) diff(ctx context.Context, p compare.Pair, vehicle string) error {
	args, err := d.Args(p, vehicle)
	if err != nil {
		return err
	}
	for _, elf := range args[len(args)-2:] {
		if _, err := os.Stat(elf); err != nil {
			return err
		}
	}
	c := execx.Cmd{Name: "python3", Args: args}
	d.Log.Infof("Starting compare (%s)", c)
	if d.Exec != nil {
		_, err = d.Exec(ctx, c)
	} else {
		_, err = execx.Run(ctx, c)
	}
	return err
}
