package shopify

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCanImport(t *testing.T) {
	imp := NewShopifyImporter()

	if !imp.CanImport("https://shop.example.com/products/linen-overshirt") {
		t.Error("product page URL rejected")
	}
	if !imp.CanImport("https://shop.example.com/collections/new/products/linen-overshirt?variant=1") {
		t.Error("collection-scoped product URL rejected")
	}
	if imp.CanImport("https://shop.example.com/collections/new") {
		t.Error("non-product URL accepted")
	}
}

func TestImportProduct(t *testing.T) {
	const productJSON = `{
  "product": {
    "title": "Linen Overshirt",
    "vendor": "Linden",
    "body_html": "<p>Relaxed fit overshirt in <strong>washed linen</strong>.</p>",
    "variants": [
      {"price": "2499.00", "compare_at_price": "2999.00", "option1": "S", "option2": "Sand"}
    ],
    "options": [
      {"name": "Size", "values": ["S", "M", "L"]},
      {"name": "Colour", "values": ["Sand", "Olive"]}
    ],
    "images": [
      {"src": "https://cdn.example.com/a.jpg"},
      {"src": "https://cdn.example.com/b.jpg"}
    ]
  }
}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/linen-overshirt.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productJSON))
	}))
	defer server.Close()

	imp := NewShopifyImporter()
	draft, err := imp.ImportProduct(server.URL + "/products/linen-overshirt?variant=123")
	if err != nil {
		t.Fatalf("ImportProduct failed: %v", err)
	}

	if draft.Name != "Linen Overshirt" {
		t.Errorf("name: got %q", draft.Name)
	}
	if draft.Brand != "Linden" {
		t.Errorf("brand: got %q", draft.Brand)
	}
	if draft.Description != "Relaxed fit overshirt in washed linen." {
		t.Errorf("description: got %q", draft.Description)
	}
	if draft.Price != 2499 || draft.OriginalPrice != 2999 {
		t.Errorf("prices: got %v / %v", draft.Price, draft.OriginalPrice)
	}
	if len(draft.Sizes) != 3 {
		t.Errorf("sizes: got %v", draft.Sizes)
	}
	if len(draft.Colors) != 2 {
		t.Errorf("colours from Colour option: got %v", draft.Colors)
	}
	if len(draft.Images) != 2 {
		t.Errorf("images: got %v", draft.Images)
	}
}

func TestImportProductMissingEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	imp := NewShopifyImporter()
	if _, err := imp.ImportProduct(server.URL + "/products/gone"); err == nil {
		t.Fatal("expected an error for a 404 endpoint")
	}
}

func TestStripTags(t *testing.T) {
	if got := stripTags("<p>Hello <b>world</b></p>"); got != "Hello world" {
		t.Errorf("stripTags: got %q", got)
	}
	if got := stripTags("plain text"); got != "plain text" {
		t.Errorf("stripTags on plain text: got %q", got)
	}
}
