// Package report renders comparison tables as CSV.
package report

import (
	"SizeCompare/definitions"
	"SizeCompare/internal/compare"
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSV renders one header row ("Board" plus every vehicle seen) and one row
// per board, both sorted case-insensitively. A cell is "*" for identical
// artifacts, the signed byte delta otherwise, or empty when nothing was
// compared. With showEmpty unset, boards with only empty cells are dropped.
func CSV(table compare.Table, showEmpty bool) string {
	boards := make([]string, 0, len(table))
	seen := make(map[string]bool)
	vehicles := make([]string, 0)
	for board, row := range table {
		boards = append(boards, board)
		for v := range row {
			if !seen[v] {
				seen[v] = true
				vehicles = append(vehicles, v)
			}
		}
	}
	definitions.SortFold(boards)
	definitions.SortFold(vehicles)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(append([]string{"Board"}, vehicles...))

	for _, board := range boards {
		line := make([]string, 0, len(vehicles)+1)
		line = append(line, board)
		empty := true
		for _, v := range vehicles {
			cell := Cell(table[board], v)
			if cell != "" {
				empty = false
			}
			line = append(line, cell)
		}
		if empty && !showEmpty {
			continue
		}
		_ = w.Write(line)
	}
	w.Flush()
	return buf.String()
}

func Cell(row map[string]compare.Result, vehicle string) string {
	res, ok := row[vehicle]
	if !ok {
		return ""
	}
	if res.Identical {
		return "*"
	}
	return strconv.FormatInt(res.ByteDelta, 10)
}
