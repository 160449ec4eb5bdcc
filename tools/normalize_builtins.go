//go:build ignore

// normalize_builtins rewrites the embedded built-in icons into the canonical
// form produced by the upload pipeline.
//
//	go run tools/normalize_builtins.go [icons dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ankek/terraform-provider-iconset/internal/ingest"
)

func main() {
	dir := "internal/renderer/icons"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		fmt.Printf("Error listing icons: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(paths)

	changed := 0
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", p, err)
			os.Exit(1)
		}
		markup, err := ingest.Process(raw)
		if err != nil {
			fmt.Printf("Error processing %s: %v\n", p, err)
			os.Exit(1)
		}
		if markup == string(raw) {
			continue
		}
		if err := os.WriteFile(p, []byte(markup), 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", p, err)
			os.Exit(1)
		}
		fmt.Printf("normalized %s\n", p)
		changed++
	}

	fmt.Printf("%d of %d icons rewritten\n", changed, len(paths))
}
