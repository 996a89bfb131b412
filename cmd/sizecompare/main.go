package main

import (
	"SizeCompare/internal/catalog"
	"SizeCompare/internal/config"
	"SizeCompare/internal/elfdiff"
	"SizeCompare/internal/logx"
	"SizeCompare/internal/metrics"
	"SizeCompare/internal/orchestrator"
	"SizeCompare/internal/report"
	"SizeCompare/internal/vcs"
	"SizeCompare/internal/waf"
	"SizeCompare/internal/workspace"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// stringList is a repeatable flag; each value may also be comma-separated.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

type options struct {
	configPath string

	branch, masterBranch string
	boards, vehicles     stringList
	allBoards            bool
	allVehicles          bool
	noMergeBase          bool
	noConsistent         bool
	showEmpty            bool

	extraHwdef, extraHwdefBranch, extraHwdefMaster stringList

	parallelCopies int
	jobs           int
	autoJobs       bool

	elfDiff bool
	binDir  string

	source, catalogPath, progressCSV, reportPath string

	progressBar bool
	verbose     bool
}

func (o *options) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("sizecompare", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "optional JSON config file; flags override it")
	fs.StringVar(&o.branch, "branch", "", "candidate branch (default: current branch or short hash)")
	fs.StringVar(&o.masterBranch, "master-branch", "master", "baseline branch")
	fs.Var(&o.boards, "board", "board to build (repeatable, comma-separated)")
	fs.Var(&o.vehicles, "vehicle", "vehicle to build (repeatable, comma-separated)")
	fs.BoolVar(&o.allBoards, "all-boards", false, "build every board in the catalog")
	fs.BoolVar(&o.allVehicles, "all-vehicles", false, "build every known vehicle")
	fs.BoolVar(&o.noMergeBase, "no-merge-base", false, "compare against the master branch tip, not the merge base")
	fs.BoolVar(&o.noConsistent, "no-waf-consistent-builds", false, "do not pass --consistent-builds to waf")
	fs.BoolVar(&o.showEmpty, "show-empty", false, "keep boards with no comparable artifacts in the report")
	fs.Var(&o.extraHwdef, "extra-hwdef", "hwdef overlay applied to both builds (repeatable)")
	fs.Var(&o.extraHwdefBranch, "extra-hwdef-branch", "hwdef overlay applied to the candidate build (repeatable)")
	fs.Var(&o.extraHwdefMaster, "extra-hwdef-master", "hwdef overlay applied to the baseline build (repeatable)")
	fs.IntVar(&o.parallelCopies, "parallel-copies", 0, "number of source copies to build in parallel; 0 builds in place")
	fs.IntVar(&o.jobs, "j", 0, "build jobs, split across parallel copies")
	fs.BoolVar(&o.autoJobs, "auto-jobs", false, "with -j 0, use the logical CPU count")
	fs.BoolVar(&o.elfDiff, "elf-diff", false, "produce elf_diff HTML reports")
	fs.StringVar(&o.binDir, "bin-dir", "", "directory holding arm-none-eabi binutils (default: from PATH)")
	fs.StringVar(&o.source, "source", ".", "source tree to build")
	fs.StringVar(&o.catalogPath, "catalog", "", "board catalog JSON (default: dumped from the source tree)")
	fs.StringVar(&o.progressCSV, "progress-csv", "", "live progress report path")
	fs.StringVar(&o.reportPath, "report", "", "also write the final report here")
	fs.BoolVar(&o.progressBar, "progress-bar", false, "show a progress bar")
	fs.BoolVar(&o.verbose, "verbose", false, "keep INFO logging with -progress-bar")
	return fs
}

func main() {
	os.Exit(sizeCompare(os.Args[1:]))
}

// sizeCompare parses args, runs the comparison and returns the exit code:
// 0 on a completed run, 1 on setup failure or interruption, 2 on bad
// configuration.
func sizeCompare(args []string) int {
	var o options
	fs := o.flagSet()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(fs, o)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg)
}

// loadConfig reads the optional config file and layers explicitly set
// flags on top.
func loadConfig(fs *flag.FlagSet, o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["branch"] {
		cfg.Branch = o.branch
	}
	if set["master-branch"] {
		cfg.MasterBranch = o.masterBranch
	}
	if set["board"] {
		cfg.Boards = o.boards
	}
	if set["vehicle"] {
		cfg.Vehicles = o.vehicles
	}
	if set["all-boards"] {
		cfg.AllBoards = o.allBoards
	}
	if set["all-vehicles"] {
		cfg.AllVehicles = o.allVehicles
	}
	if set["no-merge-base"] {
		cfg.SetMergeBase(!o.noMergeBase)
	}
	if set["no-waf-consistent-builds"] {
		cfg.SetConsistent(!o.noConsistent)
	}
	if set["show-empty"] {
		cfg.ShowEmpty = o.showEmpty
	}
	if set["extra-hwdef"] {
		cfg.ExtraHwdef = o.extraHwdef
	}
	if set["extra-hwdef-branch"] {
		cfg.ExtraHwdefBranch = o.extraHwdefBranch
	}
	if set["extra-hwdef-master"] {
		cfg.ExtraHwdefMaster = o.extraHwdefMaster
	}
	if set["parallel-copies"] {
		cfg.ParallelCopies = o.parallelCopies
	}
	if set["j"] {
		cfg.Jobs = o.jobs
	}
	if set["auto-jobs"] {
		cfg.AutoJobs = o.autoJobs
	}
	if set["elf-diff"] {
		cfg.ElfDiff = o.elfDiff
	}
	if set["bin-dir"] {
		cfg.BinDir = o.binDir
	}
	if set["source"] {
		cfg.SourceDir = o.source
	}
	if set["catalog"] {
		cfg.CatalogPath = o.catalogPath
	}
	if set["progress-csv"] {
		cfg.ProgressCSV = o.progressCSV
	}
	if set["report"] {
		cfg.ReportPath = o.reportPath
	}
	if set["progress-bar"] {
		cfg.ProgressBar = o.progressBar
	}
	if set["verbose"] {
		cfg.Verbose = o.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ResolveJobs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) int {
	log := logx.New("scb")

	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
	} else {
		cat, err = catalog.FromSource(ctx, cfg.SourceDir)
	}
	if err != nil {
		log.Errorf("load board catalog: %v", err)
		return 1
	}

	deps := orchestrator.Deps{
		VCS:     vcs.New(cfg.SubmoduleRetries, log.With("git")),
		Tool:    waf.New(log.With("waf")),
		Copier:  workspace.Rsync{Log: log.With("rsync")},
		Catalog: cat,
	}
	if cfg.ElfDiff {
		binDir := cfg.BinDir
		if binDir == "" {
			if binDir, err = elfdiff.FindBinDir(); err != nil {
				log.Errorf("%v", err)
				return 2
			}
		}
		deps.Differ = &elfdiff.Differ{
			BinDir:  binDir,
			OutRoot: orchestrator.DiffRoot(cfg.SourceDir),
			Log:     log.With("elf_diff"),
		}
	}

	s := orchestrator.New(cfg, deps, log)
	if err := s.Prepare(ctx); err != nil {
		var unknown *catalog.UnknownError
		if errors.As(err, &unknown) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		log.Errorf("%v", err)
		return 1
	}

	table, summary, err := s.Run(ctx)
	if err != nil {
		log.Errorf("run aborted: %v", err)
		metrics.Print(os.Stderr, s.Stats)
		return 1
	}

	fmt.Print(report.CSV(table, cfg.ShowEmpty))
	metrics.Print(os.Stderr, s.Stats)
	if n := len(summary.Failed()); n > 0 {
		log.Warnf("%d of %d tasks failed", n, len(s.Tasks))
	}
	log.Infof("build output kept in %s", s.Root)
	return 0
}
