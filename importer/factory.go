package importer

import (
	"fmt"

	"github.com/threadora/threadora-backend/utils"
)

// registry is populated by RegisterImporters to avoid an import cycle
// between this package and the site importers.
var registry []SiteImporter

// RegisterImporters installs the site importers checked in order;
// the last registered importer should be the generic catch-all.
func RegisterImporters(importers ...SiteImporter) {
	registry = append(registry, importers...)
}

// GetImporter returns the appropriate importer and the resolved URL
func GetImporter(url string) (SiteImporter, string, error) {
	// Resolve shortened URLs (e.g. bit.ly) before matching
	resolvedURL, err := utils.ResolveShortenedURL(url)
	if err != nil {
		return nil, url, fmt.Errorf("error resolving url: %v", err)
	}

	for _, imp := range registry {
		if imp.CanImport(resolvedURL) {
			return imp, resolvedURL, nil
		}
	}

	return nil, resolvedURL, fmt.Errorf("no importer found for url: %s", resolvedURL)
}
