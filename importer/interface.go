package importer

// Draft is a product scraped from a merchant page, before it is priced
// into the catalog. Images are remote URLs until the handler mirrors
// them to S3.
type Draft struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand,omitempty"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	Images        []string `json:"images,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	SourceURL     string   `json:"source_url"`
}

// SiteImporter defines the interface for all merchant-page importers
type SiteImporter interface {
	// CanImport checks if the importer can handle the given URL
	CanImport(url string) bool
	// ImportProduct extracts the product draft from the given URL
	ImportProduct(url string) (*Draft, error)
}
