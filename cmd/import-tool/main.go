package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/threadora/threadora-backend/importer"
	"github.com/threadora/threadora-backend/importer/generic"
	"github.com/threadora/threadora-backend/importer/shopify"
)

// Dry-run the importers against merchant URLs without touching the
// database: prints the draft each URL would produce.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: import-tool <product_url> [<product_url> ...]")
		os.Exit(1)
	}

	importer.RegisterImporters(
		shopify.NewShopifyImporter(),
		generic.NewGenericImporter(),
	)

	for _, u := range os.Args[1:] {
		fmt.Printf("Testing URL: %s\n", u)
		imp, resolved, err := importer.GetImporter(u)
		if err != nil {
			log.Printf("Failed to get importer for %s: %v\n", u, err)
			continue
		}
		fmt.Printf("Resolved URL: %s\n", resolved)
		fmt.Printf("Importer: %T\n", imp)

		draft, err := imp.ImportProduct(resolved)
		if err != nil {
			log.Printf("Failed to import product: %v\n", err)
			continue
		}

		b, _ := json.MarshalIndent(draft, "", "  ")
		fmt.Printf("Draft: %s\n", string(b))
		fmt.Println("--------------------------------------------------")
	}
}
