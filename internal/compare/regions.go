package compare

import (
	"fmt"
	"os"
	"strings"
)

// CompareRegions splits the overlapping prefix of the files into n regions
// and digests each one, so a non-identical artifact can be narrowed down to
// where it changed. Sizes and deltas are relative to the first path.
func CompareRegions(paths []string, n int, algorithm string) (*RegionReport, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("need at least 2 files")
	}
	if n <= 0 {
		return nil, fmt.Errorf("regions must be > 0")
	}
	if strings.TrimSpace(algorithm) == "" {
		return nil, fmt.Errorf("algorithm must be specified")
	}

	rep := &RegionReport{
		Algorithm: algorithm,
		Paths:     paths,
		Sizes:     make([]int64, len(paths)),
		Deltas:    make([]int64, len(paths)),
	}
	for i, p := range paths {
		sz, err := fileSize(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("artifact not found: %s", p)
			}
			return nil, err
		}
		rep.Sizes[i] = sz
		if i == 0 || sz < rep.Overlap {
			rep.Overlap = sz
		}
	}
	for i := range rep.Sizes {
		rep.Deltas[i] = rep.Sizes[i] - rep.Sizes[0]
	}

	base, rem := rep.Overlap/int64(n), rep.Overlap%int64(n)
	var offset int64
	for i := 0; i < n; i++ {
		length := base
		if int64(i) < rem {
			length++
		}
		reg := Region{Index: i, Start: offset, End: offset + length, Digests: make([]string, len(paths)), Equal: true}
		for fi, p := range paths {
			d, err := DigestRange(p, algorithm, offset, length)
			if err != nil {
				return nil, err
			}
			reg.Digests[fi] = d
			if d != reg.Digests[0] {
				reg.Equal = false
			}
		}
		rep.Regions = append(rep.Regions, reg)
		offset += length
	}
	return rep, nil
}
