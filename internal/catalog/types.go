package catalog

import (
	"fmt"
	"strings"
)

type BoardInfo struct {
	Name             string   `json:"name"`
	AutobuildTargets []string `json:"autobuild_targets"`
	IsPeriph         bool     `json:"is_ap_periph"`
}

// Builds reports whether vehicle is one of the board's autobuild targets,
// ignoring case.
func (b BoardInfo) Builds(vehicle string) bool {
	for _, t := range b.AutobuildTargets {
		if strings.EqualFold(t, vehicle) {
			return true
		}
	}
	return false
}

// UnknownError is returned when a configured board or vehicle does not exist.
type UnknownError struct {
	Kind    string
	Name    string
	Choices []string
}

func (e *UnknownError) Error() string {
	if len(e.Choices) == 0 {
		return fmt.Sprintf("bad %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("bad %s %q; choose from %s", e.Kind, e.Name, strings.Join(e.Choices, ","))
}
