// Package orchestrator holds the state of one size-comparison run and
// drives it from task generation to the final report.
package orchestrator

import (
	"SizeCompare/definitions"
	"SizeCompare/internal/build"
	"SizeCompare/internal/catalog"
	"SizeCompare/internal/compare"
	"SizeCompare/internal/config"
	"SizeCompare/internal/elfdiff"
	"SizeCompare/internal/logx"
	"SizeCompare/internal/metrics"
	"SizeCompare/internal/plan"
	"SizeCompare/internal/pool"
	"SizeCompare/internal/progress"
	"SizeCompare/internal/report"
	"SizeCompare/internal/workspace"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type VCS interface {
	build.VCS
	MergeBase(ctx context.Context, dir, a, b string) (string, error)
	CurrentBranchOrShortHash(ctx context.Context, dir string) (string, error)
}

type Deps struct {
	VCS     VCS
	Tool    build.Tool
	Copier  workspace.Copier
	Catalog *catalog.Catalog
	// Differ is only used when the config enables elf_diff.
	Differ *elfdiff.Differ
}

type Session struct {
	ID     string
	Config *config.Config
	Deps   Deps
	Log    *logx.Logger
	Stats  *metrics.Stats

	// Resolved by Prepare.
	Root      string
	Baseline  string
	Candidate string
	Boards    []string
	Vehicles  []string
	Blacklist map[string]bool
	Tasks     []plan.Task

	comparator *compare.Comparator
}

func New(cfg *config.Config, deps Deps, log *logx.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:         id,
		Config:     cfg,
		Deps:       deps,
		Log:        log,
		Stats:      &metrics.Stats{RunID: id},
		Blacklist:  definitions.BootloaderBlacklist(),
		comparator: &compare.Comparator{Log: log},
	}
}

// Prepare validates the selection, resolves both revisions and generates
// the task list. Nothing is built yet.
func (s *Session) Prepare(ctx context.Context) error {
	cfg := s.Config

	s.Boards = cfg.Boards
	if cfg.AllBoards {
		s.Boards = s.Deps.Catalog.Names()
	}
	s.Vehicles = cfg.Vehicles
	if cfg.AllVehicles {
		s.Vehicles = definitions.Vehicles()
	}
	if err := s.Deps.Catalog.Validate(s.Boards, s.Vehicles); err != nil {
		return err
	}

	s.Candidate = cfg.Branch
	if s.Candidate == "" {
		rev, err := s.Deps.VCS.CurrentBranchOrShortHash(ctx, cfg.SourceDir)
		if err != nil {
			return fmt.Errorf("find current branch: %w", err)
		}
		s.Candidate = rev
	}

	s.Baseline = cfg.MasterBranch
	if cfg.MergeBase() {
		rev, err := s.Deps.VCS.MergeBase(ctx, cfg.SourceDir, s.Candidate, cfg.MasterBranch)
		if err != nil {
			return fmt.Errorf("find merge base: %w", err)
		}
		s.Baseline = rev
		s.Log.Infof("Using merge base (%s)", rev)
	}

	if s.Root == "" {
		root, err := os.MkdirTemp("", "sizecompare-"+s.ID[:8]+"-")
		if err != nil {
			return fmt.Errorf("create run dir: %w", err)
		}
		s.Root = root
	}

	tasks, err := plan.Generate(plan.Input{
		Boards:              s.Boards,
		Vehicles:            s.Vehicles,
		Catalog:             s.Deps.Catalog,
		BootloaderBlacklist: s.Blacklist,
		Baseline:            s.Baseline,
		Candidate:           s.Candidate,
		Root:                s.Root,
		Overlays:            cfg.ExtraHwdef,
		BaselineOverlays:    cfg.ExtraHwdefMaster,
		CandidateOverlays:   cfg.ExtraHwdefBranch,
	})
	if err != nil {
		return err
	}
	s.Tasks = tasks
	s.Stats.Total = int64(len(tasks))
	s.Log.Infof("run %s: %d tasks (%s vs %s) in %s", s.ID, len(tasks), s.Baseline, s.Candidate, s.Root)
	return nil
}

// Run builds every task, keeps the progress report current while builds
// are in flight, and returns the final comparison table.
func (s *Session) Run(ctx context.Context) (compare.Table, *pool.Summary, error) {
	cfg := s.Config
	if s.Tasks == nil {
		return nil, nil, fmt.Errorf("session not prepared")
	}

	var bar *progress.Bar
	if cfg.ProgressBar {
		if !cfg.Verbose {
			logx.Quiet()
			defer logx.Verbose()
		}
		bar = progress.New(len(s.Tasks), s.Stats.Snapshot)
	}

	runner := &build.Runner{
		VCS:                 s.Deps.VCS,
		Tool:                s.Deps.Tool,
		Copier:              s.Deps.Copier,
		ConsistentBuilds:    cfg.Consistent(),
		BootloaderBlacklist: s.Blacklist,
		TempDir:             s.Root,
		Log:                 s.Log,
	}
	p := &pool.Pool{
		Runner: runner,
		Workspaces: &workspace.Manager{
			Source: cfg.SourceDir,
			Root:   s.Root,
			Copier: s.Deps.Copier,
			Log:    s.Log,
		},
		Workers:  cfg.ParallelCopies,
		Jobs:     cfg.Jobs,
		Interval: cfg.ProgressInterval,
		Progress: s.writeProgress,
		Stats:    s.Stats,
		Bar:      bar,
		Log:      s.Log,
	}

	s.Stats.Start()
	summary := p.Run(ctx, s.Tasks)
	bar.Close()
	s.Stats.Stop()

	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	results := plan.GatherAll(s.Tasks, s.Blacklist)
	table := s.comparator.Compare(results)
	s.recordComparisons(table)

	if cfg.ElfDiff && s.Deps.Differ != nil {
		for _, pair := range compare.Pairs(results) {
			if len(table[pair.Board]) == 0 {
				continue
			}
			s.Deps.Differ.DiffPair(ctx, pair)
		}
	}

	csv := report.CSV(table, cfg.ShowEmpty)
	if err := report.WriteFile(cfg.ProgressCSV, csv); err != nil {
		s.Log.Warnf("write progress report: %v", err)
	}
	if cfg.ReportPath != "" {
		if err := report.WriteFile(cfg.ReportPath, csv); err != nil {
			return table, summary, fmt.Errorf("write report: %w", err)
		}
	}
	for _, o := range summary.Failed() {
		s.Log.Warnf("task %s did not complete: %v", o.Task, o.Err)
	}
	return table, summary, nil
}

// writeProgress compares whatever has finished and rewrites the progress
// file. Called by the pool between tasks or on its ticker.
func (s *Session) writeProgress(finished []plan.Task) {
	table := s.comparator.Compare(plan.GatherAll(finished, s.Blacklist))
	s.recordComparisons(table)
	if err := report.WriteFile(s.Config.ProgressCSV, report.CSV(table, s.Config.ShowEmpty)); err != nil {
		s.Log.Warnf("write progress report: %v", err)
	}
}

func (s *Session) recordComparisons(table compare.Table) {
	identical := 0
	for _, row := range table {
		for _, r := range row {
			if r.Identical {
				identical++
			}
		}
	}
	s.Stats.SetComparisons(table.Len(), identical)
}

// DiffRoot is where elf_diff reports go: next to the source tree.
func DiffRoot(sourceDir string) string {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return ".."
	}
	return filepath.Dir(abs)
}
