package generic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/threadora/threadora-backend/importer"
	"github.com/threadora/threadora-backend/importer/base"
)

// GenericImporter reads schema.org Product JSON-LD, falling back to
// OpenGraph meta tags. It is the catch-all for merchant pages no
// site-specific importer claims.
type GenericImporter struct {
	*base.BaseImporter
}

func NewGenericImporter() *GenericImporter {
	return &GenericImporter{
		BaseImporter: base.NewBaseImporter(),
	}
}

func (s *GenericImporter) CanImport(url string) bool {
	return strings.HasPrefix(url, "http")
}

func (s *GenericImporter) ImportProduct(url string) (*importer.Draft, error) {
	doc, err := s.FetchDocument(url, func(doc *goquery.Document) bool {
		return hasProductLD(doc) || base.HasTitle(doc)
	})
	if err != nil {
		return nil, err
	}

	draft, err := ParseDocument(doc)
	if err != nil {
		return nil, err
	}
	draft.SourceURL = url
	return draft, nil
}

// jsonLDProduct mirrors the schema.org Product fields we care about
type jsonLDProduct struct {
	Type        interface{} `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       interface{} `json:"image"` // string or []string
	Brand       interface{} `json:"brand"` // string or {"name": ...}
	Offers      interface{} `json:"offers"`
}

type jsonLDOffer struct {
	Price    interface{} `json:"price"` // string or number
	Currency string      `json:"priceCurrency"`
}

// ParseDocument extracts a product draft from an already fetched page
func ParseDocument(doc *goquery.Document) (*importer.Draft, error) {
	if draft := parseJSONLD(doc); draft != nil {
		return draft, nil
	}
	if draft := parseOpenGraph(doc); draft != nil {
		return draft, nil
	}
	return nil, fmt.Errorf("no product data found on page")
}

func hasProductLD(doc *goquery.Document) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		if strings.Contains(s.Text(), `"Product"`) {
			found = true
		}
	})
	return found
}

func parseJSONLD(doc *goquery.Document) *importer.Draft {
	var draft *importer.Draft
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.Contains(text, `"Product"`) {
			return true
		}

		// Some sites wrap the product in a @graph array
		var candidates []json.RawMessage
		if strings.HasPrefix(text, "[") {
			if err := json.Unmarshal([]byte(text), &candidates); err != nil {
				return true
			}
		} else {
			var envelope struct {
				Graph []json.RawMessage `json:"@graph"`
			}
			if err := json.Unmarshal([]byte(text), &envelope); err == nil && len(envelope.Graph) > 0 {
				candidates = envelope.Graph
			} else {
				candidates = []json.RawMessage{json.RawMessage(text)}
			}
		}

		for _, raw := range candidates {
			var p jsonLDProduct
			if err := json.Unmarshal(raw, &p); err != nil {
				continue
			}
			if !isProductType(p.Type) || p.Name == "" {
				continue
			}
			draft = &importer.Draft{
				Name:        strings.TrimSpace(p.Name),
				Description: strings.TrimSpace(p.Description),
				Brand:       brandName(p.Brand),
				Images:      imageList(p.Image),
			}
			draft.Price = offerPrice(p.Offers)
			return false
		}
		return true
	})
	return draft
}

func parseOpenGraph(doc *goquery.Document) *importer.Draft {
	name := metaContent(doc, "og:title")
	if name == "" {
		name = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if name == "" {
		return nil
	}

	draft := &importer.Draft{
		Name:        name,
		Description: metaContent(doc, "og:description"),
	}
	if img := metaContent(doc, "og:image"); img != "" {
		draft.Images = []string{img}
	}
	if amount := metaContent(doc, "product:price:amount"); amount != "" {
		draft.Price = parsePrice(amount)
	}
	return draft
}

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(fmt.Sprintf(`meta[property="%s"]`, property)).Attr("content")
	return strings.TrimSpace(value)
}

func isProductType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

func brandName(b interface{}) string {
	switch v := b.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if name, ok := v["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func imageList(img interface{}) []string {
	switch v := img.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func offerPrice(offers interface{}) float64 {
	var offer jsonLDOffer
	switch v := offers.(type) {
	case map[string]interface{}:
		raw, _ := json.Marshal(v)
		json.Unmarshal(raw, &offer)
	case []interface{}:
		if len(v) > 0 {
			raw, _ := json.Marshal(v[0])
			json.Unmarshal(raw, &offer)
		}
	}

	switch p := offer.Price.(type) {
	case string:
		return parsePrice(p)
	case float64:
		return p
	}
	return 0
}

func parsePrice(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return val
}
