package plan

import (
	"SizeCompare/definitions"
	"path/filepath"
)

// Locate derives where waf leaves the artifacts of vehicle for board under
// outDir. Bootloader ELFs live in their own directory.
func Locate(board, vehicle, outDir string) Artifact {
	stem, ok := definitions.VehicleBinaries[vehicle]
	if !ok {
		stem = vehicle
	}
	boardDir := filepath.Join(outDir, board)
	elfDir := filepath.Join(boardDir, "bin")
	if vehicle == definitions.BootloaderVehicle {
		elfDir = filepath.Join(boardDir, "bootloader")
	}
	return Artifact{
		BinName: stem + ".bin",
		BinDir:  filepath.Join(boardDir, "bin"),
		ElfName: stem,
		ElfDir:  elfDir,
	}
}

// Gather builds the BuildResult for a task without touching the
// filesystem; whether the files exist is the comparator's concern.
func Gather(t Task, blacklist map[string]bool) BuildResult {
	res := BuildResult{
		Board:    t.Board,
		Role:     t.Role,
		Revision: t.Revision,
		Vehicles: make(map[string]Artifact, len(t.Vehicles)),
	}
	for _, v := range t.Vehicles {
		if v == definitions.BootloaderVehicle && blacklist[t.Board] {
			continue
		}
		res.Vehicles[v] = Locate(t.Board, v, t.OutputDir)
	}
	return res
}

// GatherAll is Gather over a task list, preserving order.
func GatherAll(tasks []Task, blacklist map[string]bool) []BuildResult {
	out := make([]BuildResult, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Gather(t, blacklist))
	}
	return out
}
