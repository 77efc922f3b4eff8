package base

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// BaseImporter handles common fetching logic for merchant pages
type BaseImporter struct {
	Client *http.Client
}

// NewBaseImporter creates a new BaseImporter instance
func NewBaseImporter() *BaseImporter {
	return &BaseImporter{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// FetchDocument fetches the URL, falling back to a headless browser when
// the plain HTTP response fails the validator (script-rendered pages).
func (b *BaseImporter) FetchDocument(url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	doc, err := b.FetchDocumentHTTP(url)
	if err == nil {
		if validator(doc) {
			fmt.Printf("[Importer] HTTP Success: %s\n", url)
			return doc, nil
		}
		fmt.Printf("[Importer] HTTP yielded invalid content (validator failed), trying headless fallback...\n")
	} else {
		fmt.Printf("[Importer] HTTP Failed: %v\n", err)
	}

	fmt.Printf("[Importer] Trying ChromeDP: %s\n", url)
	doc, err = b.FetchDocumentChromeDP(url)
	if err == nil && validator(doc) {
		fmt.Printf("[Importer] ChromeDP Success\n")
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("all fetch strategies failed: %w", err)
	}
	return nil, fmt.Errorf("page content did not validate for %s", url)
}

// FetchDocumentHTTP fetches the URL with the plain HTTP client
func (b *BaseImporter) FetchDocumentHTTP(url string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// HasTitle is the default validator: the page at least parsed a heading
func HasTitle(doc *goquery.Document) bool {
	return doc.Find("h1").Length() > 0 || strings.TrimSpace(doc.Find("title").Text()) != ""
}
