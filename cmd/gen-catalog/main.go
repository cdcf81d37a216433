package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/triprules/pkg/itinerary"
)

func main() {
	target := filepath.Join(".triprules", "catalog.yaml")
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	if _, err := os.Stat(target); err == nil {
		fmt.Printf("Refusing to overwrite %s\n", target)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		panic(err)
	}

	data := itinerary.DefaultCatalogYAML()
	// Round-trip before writing so the scaffold is known to load.
	if _, err := itinerary.ParseCatalog(data); err != nil {
		panic(err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote itinerary catalog to: %s\n", target)
	fmt.Println("Point generator.catalog (or TRIPRULES_GENERATOR_CATALOG) at it to use your copy.")
}
