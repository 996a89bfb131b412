// Package compare pairs baseline and candidate build results and measures
// how their artifacts differ.
package compare

import (
	"SizeCompare/internal/logx"
	"SizeCompare/internal/plan"
	"errors"
	"io/fs"
	"os"
	"sort"
)

type Comparator struct {
	Log *logx.Logger
}

// Pairs matches baseline and candidate results by board. Boards missing
// either side are left out; the result is sorted by board.
func Pairs(results []plan.BuildResult) []Pair {
	byBoard := make(map[string]*Pair)
	for _, r := range results {
		p, ok := byBoard[r.Board]
		if !ok {
			p = &Pair{Board: r.Board}
			byBoard[r.Board] = p
		}
		switch r.Role {
		case plan.Baseline:
			p.Baseline = r
		case plan.Candidate:
			p.Candidate = r
		}
	}

	out := make([]Pair, 0, len(byBoard))
	for _, p := range byBoard {
		if p.Baseline.Vehicles == nil || p.Candidate.Vehicles == nil {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Board < out[j].Board })
	return out
}

// Compare measures every vehicle of every complete pair. Vehicles whose
// artifacts are not on disk on both sides are skipped; a complete pair
// with nothing comparable still gets an empty row.
func (c *Comparator) Compare(results []plan.BuildResult) Table {
	table := make(Table)
	for _, p := range Pairs(results) {
		table[p.Board] = c.ComparePair(p)
	}
	return table
}

func (c *Comparator) ComparePair(p Pair) map[string]Result {
	row := make(map[string]Result)
	for vehicle, base := range p.Baseline.Vehicles {
		cand, ok := p.Candidate.Vehicles[vehicle]
		if !ok {
			continue
		}
		res, ok, err := compareArtifacts(base, cand)
		if err != nil {
			c.Log.Warnf("compare %s/%s: %v", p.Board, vehicle, err)
			continue
		}
		if !ok {
			continue
		}
		res.Board = p.Board
		res.Vehicle = vehicle
		row[vehicle] = res
	}
	return row
}

// compareArtifacts prefers the .bin files, falling back to the ELFs. Both
// sides must have the same kind; a bin on one side and only an ELF on the
// other is not comparable.
func compareArtifacts(base, cand plan.Artifact) (Result, bool, error) {
	candidates := [][2]string{
		{base.BinPath(), cand.BinPath()},
		{base.ElfPath(), cand.ElfPath()},
	}
	for _, paths := range candidates {
		baseSize, err := fileSize(paths[0])
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Result{}, false, err
		}
		candSize, err := fileSize(paths[1])
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Result{}, false, err
		}

		identical, err := FilesIdentical(paths[0], paths[1])
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Result{}, false, err
		}
		return Result{
			ByteDelta:     candSize - baseSize,
			Identical:     identical,
			BaselinePath:  paths[0],
			CandidatePath: paths[1],
		}, true, nil
	}
	return Result{}, false, nil
}

func fileSize(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.IsDir() {
		return 0, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return st.Size(), nil
}
