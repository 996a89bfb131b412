package compare

import "SizeCompare/internal/plan"

// Result is the comparison of one vehicle's artifact across the two revisions.
type Result struct {
	Board   string
	Vehicle string
	// ByteDelta is candidate size minus baseline size.
	ByteDelta int64
	// Identical is set only on a full content match.
	Identical bool

	BaselinePath  string
	CandidatePath string
}

// Table maps board → vehicle → Result.
type Table map[string]map[string]Result

func (t Table) Len() int {
	n := 0
	for _, vs := range t {
		n += len(vs)
	}
	return n
}

// Pair is a board's baseline and candidate build results.
type Pair struct {
	Board     string
	Baseline  plan.BuildResult
	Candidate plan.BuildResult
}

type Region struct {
	Index   int
	Start   int64
	End     int64
	Digests []string
	Equal   bool
}

type RegionReport struct {
	Algorithm string
	Paths     []string
	Sizes     []int64
	// Deltas are sizes relative to the first file.
	Deltas  []int64
	Overlap int64
	Regions []Region
}

func (r *RegionReport) Differing() []int {
	out := make([]int, 0)
	for _, reg := range r.Regions {
		if !reg.Equal {
			out = append(out, reg.Index)
		}
	}
	return out
}

// Identical reports whether every file has the same size and every region matches.
func (r *RegionReport) Identical() bool {
	for _, d := range r.Deltas {
		if d != 0 {
			return false
		}
	}
	return len(r.Differing()) == 0
}
