// Package plan turns a board/vehicle selection into build tasks and knows
// where each task's artifacts land.
package plan

import (
	"SizeCompare/definitions"
	"SizeCompare/internal/catalog"
	"fmt"
	"path/filepath"
)

type BoardLookup interface {
	Lookup(name string) (catalog.BoardInfo, bool)
}

type Input struct {
	Boards   []string
	Vehicles []string
	Catalog  BoardLookup
	// BootloaderBlacklist names boards no bootloader is built for.
	BootloaderBlacklist map[string]bool

	// Baseline is already resolved (merge-base or master branch).
	Baseline  string
	Candidate string
	Root      string

	Overlays          []string
	BaselineOverlays  []string
	CandidateOverlays []string
}

// Generate returns a baseline and a candidate task per board, baseline first.
func Generate(in Input) ([]Task, error) {
	tasks := make([]Task, 0, 2*len(in.Boards))
	for _, board := range in.Boards {
		info, ok := in.Catalog.Lookup(board)
		if !ok {
			return nil, &catalog.UnknownError{Kind: "board", Name: board}
		}
		vehicles := VehiclesFor(info, in.Vehicles, in.BootloaderBlacklist)

		tasks = append(tasks,
			Task{
				Board:     board,
				Role:      Baseline,
				Revision:  in.Baseline,
				OutputDir: OutputDir(in.Root, Baseline, board),
				Vehicles:  vehicles,
				Overlays:  joinOverlays(in.Overlays, in.BaselineOverlays),
			},
			Task{
				Board:     board,
				Role:      Candidate,
				Revision:  in.Candidate,
				OutputDir: OutputDir(in.Root, Candidate, board),
				Vehicles:  append([]string(nil), vehicles...),
				Overlays:  joinOverlays(in.Overlays, in.CandidateOverlays),
			},
		)
	}
	return tasks, nil
}

// VehiclesFor filters the requested vehicles down to those board can build.
// Periph boards only build AP_Periph; the bootloader is not an autobuild
// target and is allowed everywhere outside the blacklist.
func VehiclesFor(board catalog.BoardInfo, vehicles []string, blacklist map[string]bool) []string {
	out := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		if v == definitions.PeriphVehicle {
			if board.IsPeriph {
				out = append(out, v)
			}
			continue
		}
		if board.IsPeriph {
			continue
		}
		if v == definitions.BootloaderVehicle {
			if !blacklist[board.Name] {
				out = append(out, v)
			}
			continue
		}
		if board.Builds(v) {
			out = append(out, v)
		}
	}
	return out
}

func OutputDir(root string, role Role, board string) string {
	return filepath.Join(root, fmt.Sprintf("out-%s-%s", role, board))
}

func joinOverlays(global, role []string) []string {
	out := make([]string, 0, len(global)+len(role))
	for _, group := range [][]string{global, role} {
		for _, o := range group {
			if o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
