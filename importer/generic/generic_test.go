package generic

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestParseDocumentJSONLD(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Linen Overshirt",
  "description": "Relaxed fit overshirt in washed linen.",
  "brand": {"@type": "Brand", "name": "Linden"},
  "image": ["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"],
  "offers": {"@type": "Offer", "price": "2499.00", "priceCurrency": "INR"}
}
</script>
</head><body><h1>ignored</h1></body></html>`

	draft, err := ParseDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if draft.Name != "Linen Overshirt" {
		t.Errorf("name: got %q", draft.Name)
	}
	if draft.Brand != "Linden" {
		t.Errorf("brand: got %q", draft.Brand)
	}
	if draft.Price != 2499 {
		t.Errorf("price: got %v", draft.Price)
	}
	if len(draft.Images) != 2 {
		t.Errorf("images: got %v", draft.Images)
	}
}

func TestParseDocumentJSONLDGraph(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "BreadcrumbList", "name": "crumbs"},
    {"@type": ["Product", "Thing"], "name": "Canvas Tote", "brand": "Harbour",
     "image": "https://cdn.example.com/tote.jpg",
     "offers": [{"price": 1299, "priceCurrency": "INR"}]}
  ]
}
</script>
</head><body></body></html>`

	draft, err := ParseDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if draft.Name != "Canvas Tote" {
		t.Errorf("name: got %q", draft.Name)
	}
	if draft.Brand != "Harbour" {
		t.Errorf("string brand: got %q", draft.Brand)
	}
	if draft.Price != 1299 {
		t.Errorf("numeric price from offer array: got %v", draft.Price)
	}
	if len(draft.Images) != 1 {
		t.Errorf("single-string image: got %v", draft.Images)
	}
}

func TestParseDocumentOpenGraphFallback(t *testing.T) {
	html := `<html><head>
<meta property="og:title" content="Corduroy Cap" />
<meta property="og:description" content="Six-panel cap in brown corduroy." />
<meta property="og:image" content="https://cdn.example.com/cap.jpg" />
<meta property="product:price:amount" content="₹799" />
</head><body></body></html>`

	draft, err := ParseDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if draft.Name != "Corduroy Cap" {
		t.Errorf("name: got %q", draft.Name)
	}
	if draft.Price != 799 {
		t.Errorf("price: got %v", draft.Price)
	}
	if len(draft.Images) != 1 || draft.Images[0] != "https://cdn.example.com/cap.jpg" {
		t.Errorf("images: got %v", draft.Images)
	}
}

func TestParseDocumentNoProduct(t *testing.T) {
	html := `<html><head><title>404</title></head><body><p>Not found</p></body></html>`

	if _, err := ParseDocument(docFromHTML(t, html)); err == nil {
		t.Fatal("expected an error for a page with no product data")
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"2499.00":  2499,
		"₹1,299":   1299,
		"Rs 999":   999,
		"":         0,
		"unpriced": 0,
	}
	for in, want := range cases {
		if got := parsePrice(in); got != want {
			t.Errorf("parsePrice(%q): want %v, got %v", in, want, got)
		}
	}
}
