package dresser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/threadora/threadora-backend/models"
)

// ErrUpstreamUnavailable is returned when a dependency the engine reads
// from (catalog, quota store) fails. The engine never retries; callers
// treat it as a generic failure.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// AccessDeniedError carries the time at which the daily free session
// becomes available again.
type AccessDeniedError struct {
	ResetsAt time.Time
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("dresser access denied, resets at %s", e.ResetsAt.Format(time.RFC3339))
}

// CatalogProvider supplies the product snapshot a recommendation runs
// against. The caller picks the provider (client-supplied list or the
// server catalog); the engine never branches on the source.
type CatalogProvider interface {
	Catalog(ctx context.Context) ([]models.Product, error)
}

// StaticCatalog wraps a client-supplied product list as a provider
type StaticCatalog []models.Product

func (c StaticCatalog) Catalog(ctx context.Context) ([]models.Product, error) {
	return c, nil
}

// Budget accepts both JSON string ("2500", "₹2,500") and number forms
type Budget float64

func (b *Budget) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		// Strip currency symbols and separators before parsing
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, raw)
		// "Rs." style prefixes leave a stray leading dot behind
		cleaned = strings.Trim(cleaned, ".")
		val, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			*b = 0
			return nil
		}
		*b = Budget(val)
		return nil
	}

	var val float64
	if err := json.Unmarshal(data, &val); err != nil {
		*b = 0
		return nil
	}
	*b = Budget(val)
	return nil
}

// QuizAnswers is the shopper's dresser questionnaire, supplied once per
// session and never mutated by the engine.
type QuizAnswers struct {
	Purpose  string   `json:"purpose,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Style    string   `json:"style,omitempty"`
	Occasion string   `json:"occasion,omitempty"`
	Budget   Budget   `json:"budget,omitempty"`
	Color    string   `json:"color,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// LookItem is a denormalized projection of a chosen product
type LookItem struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	StylingNote string  `json:"styling_note,omitempty"`
}

// Look is one composed outfit. Items are in role order
// (top → bottom → footwear → accessory) and TotalPrice is the exact sum
// of item prices. Looks are immutable once returned.
type Look struct {
	LookNumber      int        `json:"look_number"`
	LookName        string     `json:"look_name"`
	LookDescription string     `json:"look_description"`
	Items           []LookItem `json:"items"`
	TotalPrice      float64    `json:"total_price"`
	StyleTip        string     `json:"style_tip,omitempty"`
}
