package shopify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/threadora/threadora-backend/importer"
)

// ShopifyImporter reads the product JSON endpoint Shopify storefronts
// expose next to every product page (/products/<handle>.json), which is
// far more reliable than parsing the rendered page.
type ShopifyImporter struct {
	Client *http.Client
}

func NewShopifyImporter() *ShopifyImporter {
	return &ShopifyImporter{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ShopifyImporter) CanImport(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/products/")
}

type shopifyProduct struct {
	Product struct {
		Title    string `json:"title"`
		Vendor   string `json:"vendor"`
		BodyHTML string `json:"body_html"`
		Variants []struct {
			Price          string `json:"price"`
			CompareAtPrice string `json:"compare_at_price"`
			Option1        string `json:"option1"`
			Option2        string `json:"option2"`
		} `json:"variants"`
		Options []struct {
			Name   string   `json:"name"`
			Values []string `json:"values"`
		} `json:"options"`
		Images []struct {
			Src string `json:"src"`
		} `json:"images"`
	} `json:"product"`
}

func (s *ShopifyImporter) ImportProduct(rawURL string) (*importer.Draft, error) {
	jsonURL := strings.SplitN(rawURL, "?", 2)[0] + ".json"

	req, err := http.NewRequest("GET", jsonURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product JSON endpoint returned status %d", resp.StatusCode)
	}

	var payload shopifyProduct
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode product JSON: %w", err)
	}
	p := payload.Product
	if p.Title == "" {
		return nil, fmt.Errorf("product JSON missing title")
	}

	draft := &importer.Draft{
		Name:        p.Title,
		Brand:       p.Vendor,
		Description: stripTags(p.BodyHTML),
		SourceURL:   rawURL,
	}

	for _, img := range p.Images {
		if img.Src != "" {
			draft.Images = append(draft.Images, img.Src)
		}
	}

	if len(p.Variants) > 0 {
		if price, err := strconv.ParseFloat(p.Variants[0].Price, 64); err == nil {
			draft.Price = price
		}
		if mrp, err := strconv.ParseFloat(p.Variants[0].CompareAtPrice, 64); err == nil {
			draft.OriginalPrice = mrp
		}
	}

	for _, opt := range p.Options {
		switch strings.ToLower(opt.Name) {
		case "size":
			draft.Sizes = opt.Values
		case "color", "colour":
			draft.Colors = opt.Values
		}
	}

	return draft, nil
}

// stripTags flattens the HTML description Shopify returns
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
