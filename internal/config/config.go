package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

type Config struct {
	// Branch is the candidate revision; empty means the current branch or hash.
	Branch       string `json:"branch"`
	MasterBranch string `json:"master_branch"`

	Boards      []string `json:"boards"`
	Vehicles    []string `json:"vehicles"`
	AllBoards   bool     `json:"all_boards"`
	AllVehicles bool     `json:"all_vehicles"`

	UseMergeBase     *bool `json:"use_merge_base"`
	ConsistentBuilds *bool `json:"waf_consistent_builds"`
	ShowEmpty        bool  `json:"show_empty"`

	ExtraHwdef       []string `json:"extra_hwdef"`
	ExtraHwdefBranch []string `json:"extra_hwdef_branch"`
	ExtraHwdefMaster []string `json:"extra_hwdef_master"`

	// ParallelCopies of zero builds sequentially in SourceDir.
	ParallelCopies int  `json:"parallel_copies"`
	Jobs           int  `json:"jobs"`
	AutoJobs       bool `json:"auto_jobs"`

	ElfDiff bool   `json:"elf_diff"`
	BinDir  string `json:"bin_dir"`

	SourceDir   string `json:"source_dir"`
	CatalogPath string `json:"catalog"`
	ProgressCSV string `json:"progress_csv"`
	ReportPath  string `json:"report"`

	SubmoduleRetries uint          `json:"submodule_retries"`
	ProgressInterval time.Duration `json:"-"`
	ProgressBar      bool          `json:"progress_bar"`

	// Verbose keeps INFO logging on while the progress bar is shown.
	Verbose bool `json:"verbose"`
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a JSON config file and fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.MasterBranch == "" {
		c.MasterBranch = "master"
	}
	if len(c.Boards) == 0 {
		c.Boards = []string{"MatekF405-Wing"}
	}
	if len(c.Vehicles) == 0 {
		c.Vehicles = []string{"plane"}
	}
	if c.UseMergeBase == nil {
		c.UseMergeBase = boolPtr(true)
	}
	if c.ConsistentBuilds == nil {
		c.ConsistentBuilds = boolPtr(true)
	}
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.ProgressCSV == "" {
		c.ProgressCSV = filepath.Join(os.TempDir(), "size_compare_progress.csv")
	}
	if c.SubmoduleRetries == 0 {
		c.SubmoduleRetries = 2
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = time.Second
	}
}

func (c *Config) Validate() error {
	if c.ParallelCopies < 0 {
		return fmt.Errorf("parallel copies must be >= 0, got %d", c.ParallelCopies)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.MasterBranch == "" {
		return fmt.Errorf("master branch must be specified")
	}
	if !c.AllBoards && len(c.Boards) == 0 {
		return fmt.Errorf("no boards selected")
	}
	if !c.AllVehicles && len(c.Vehicles) == 0 {
		return fmt.Errorf("no vehicles selected")
	}
	return nil
}

// ResolveJobs fills Jobs from the logical CPU count when AutoJobs is set and
// no explicit count was given.
func (c *Config) ResolveJobs() error {
	if !c.AutoJobs || c.Jobs > 0 {
		return nil
	}
	n, err := cpu.Counts(true)
	if err != nil {
		return fmt.Errorf("count cpus: %w", err)
	}
	if n <= 0 {
		n = 1
	}
	c.Jobs = n
	return nil
}

func boolPtr(b bool) *bool { return &b }

func (c *Config) MergeBase() bool { return c.UseMergeBase == nil || *c.UseMergeBase }

func (c *Config) Consistent() bool { return c.ConsistentBuilds == nil || *c.ConsistentBuilds }

func (c *Config) SetMergeBase(v bool)  { c.UseMergeBase = boolPtr(v) }
func (c *Config) SetConsistent(v bool) { c.ConsistentBuilds = boolPtr(v) }
