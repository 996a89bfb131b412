package plan

import (
	"fmt"
	"path/filepath"
)

type Role string

const (
	Baseline  Role = "master"
	Candidate Role = "branch"
)

// Task is one board built at one revision.
type Task struct {
	Board    string
	Role     Role
	Revision string
	// OutputDir receives a copy of the build tree once the build finishes.
	OutputDir string
	Vehicles  []string
	// Overlays are hwdef fragments, concatenated in order at build time.
	Overlays []string
}

func (t Task) String() string {
	return fmt.Sprintf("%s@%s(%s) %v", t.Board, t.Revision, t.Role, t.Vehicles)
}

// Artifact locates the files one vehicle build is expected to produce.
type Artifact struct {
	BinName string
	BinDir  string
	ElfName string
	ElfDir  string
}

func (a Artifact) BinPath() string { return filepath.Join(a.BinDir, a.BinName) }
func (a Artifact) ElfPath() string { return filepath.Join(a.ElfDir, a.ElfName) }

type BuildResult struct {
	Board    string
	Role     Role
	Revision string
	Vehicles map[string]Artifact
}
