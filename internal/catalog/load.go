package catalog

import (
	"SizeCompare/definitions"
	"SizeCompare/internal/execx"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// dumps Tools/scripts/board_list.py as the JSON that Parse reads
const boardListDump = `import json, board_list
print(json.dumps([{"name": b.name, "autobuild_targets": list(b.autobuild_targets), "is_ap_periph": bool(b.is_ap_periph)} for b in board_list.BoardList().boards]))`

type Catalog struct {
	boards map[string]BoardInfo
}

func New(boards []BoardInfo) *Catalog {
	c := &Catalog{boards: make(map[string]BoardInfo, len(boards))}
	for _, b := range boards {
		c.boards[b.Name] = b
	}
	return c
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// FromSource asks the source tree's own board list for its boards.
func FromSource(ctx context.Context, sourceDir string) (*Catalog, error) {
	out, err := execx.Run(ctx, execx.Cmd{
		Name: "python3",
		Args: []string{"-c", boardListDump},
		Dir:  filepath.Join(sourceDir, "Tools", "scripts"),
	})
	if err != nil {
		return nil, fmt.Errorf("dump board list: %w", err)
	}
	return Parse([]byte(out))
}

func Parse(data []byte) (*Catalog, error) {
	var boards []BoardInfo
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("catalog: no boards")
	}
	for i, b := range boards {
		if b.Name == "" {
			return nil, fmt.Errorf("catalog: board %d has no name", i)
		}
	}
	return New(boards), nil
}

func (c *Catalog) Lookup(name string) (BoardInfo, bool) {
	b, ok := c.boards[name]
	return b, ok
}

// Names returns every board name sorted case-insensitively.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.boards))
	for n := range c.boards {
		out = append(out, n)
	}
	definitions.SortFold(out)
	return out
}

// Validate checks that every board is in the catalog and every vehicle has
// a known binary name.
func (c *Catalog) Validate(boards, vehicles []string) error {
	for _, b := range boards {
		if _, ok := c.boards[b]; !ok {
			return &UnknownError{Kind: "board", Name: b}
		}
	}
	for _, v := range vehicles {
		if _, ok := definitions.VehicleBinaries[v]; !ok {
			return &UnknownError{Kind: "vehicle", Name: v, Choices: definitions.Vehicles()}
		}
	}
	return nil
}
