package dresser

import (
	"strings"

	"github.com/threadora/threadora-backend/models"
)

// filterCatalog narrows the snapshot to sellable, gender-appropriate
// candidates. Unisex and untagged products pass every gender request;
// an empty request passes everything that is in stock.
func filterCatalog(products []models.Product, gender string) []models.Product {
	gender = strings.ToLower(strings.TrimSpace(gender))

	var out []models.Product
	for _, p := range products {
		if !p.Available() {
			continue
		}
		if gender != "" {
			pg := strings.ToLower(p.Gender)
			if pg != "" && pg != "unisex" && pg != gender {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
