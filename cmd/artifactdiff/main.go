package main

import (
	"SizeCompare/internal/compare"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	var (
		regions   int
		algorithm string
	)

	flag.IntVar(&regions, "regions", 8, "Number of regions")
	flag.StringVar(&algorithm, "alg", "SHA256", "Hash algorithm (SHA256, SHA1, SHA512, MD5)")
	flag.Parse()

	paths := flag.Args()

	if len(paths) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s -regions 8 -alg SHA256 <baseline> <candidate> [more ...]\n", os.Args[0])
		os.Exit(2)
	}

	rep, err := compare.CompareRegions(paths, regions, algorithm)
	if err != nil {
		log.Fatalf("compare regions: %v", err)
	}

	fmt.Printf("Algorithm: %s\n", rep.Algorithm)
	fmt.Printf("Regions:   %d\n\n", len(rep.Regions))

	fmt.Println("Artifacts:")
	for i, p := range rep.Paths {
		fmt.Printf("  [%d] %s (size=%d delta=%+d)\n", i, p, rep.Sizes[i], rep.Deltas[i])
	}
	fmt.Println()

	if rep.Identical() {
		fmt.Println("Result: identical.")
		return
	}

	differing := rep.Differing()
	if len(differing) == 0 {
		fmt.Printf("Result: first %d bytes match; only sizes differ.\n", rep.Overlap)
		return
	}

	fmt.Printf("Differing regions: %v\n\n", differing)
	for _, idx := range differing {
		reg := rep.Regions[idx]
		fmt.Printf("Region %d [%d, %d) differs:\n", reg.Index, reg.Start, reg.End)
		for fi, p := range rep.Paths {
			fmt.Printf("  [%d] %s\n      %s\n", fi, p, reg.Digests[fi])
		}
		fmt.Println()
	}
}
