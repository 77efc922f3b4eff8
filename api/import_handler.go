package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/threadora/threadora-backend/importer"
	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/store"
	"github.com/threadora/threadora-backend/utils"
)

// ImportHandler ingests products from merchant pages into the catalog
type ImportHandler struct {
	Products *store.ProductStore
}

func NewImportHandler(products *store.ProductStore) *ImportHandler {
	return &ImportHandler{Products: products}
}

// ImportRequest represents the payload for importing a product by URL.
// Category and gender come from the admin because merchant pages rarely
// carry them in a usable form; Price overrides the scraped price.
type ImportRequest struct {
	URL      string   `json:"url"`
	Category string   `json:"category"`
	Gender   string   `json:"gender,omitempty"`
	Price    float64  `json:"price,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	StockQty *int     `json:"stock_qty,omitempty"`
}

// Import handles POST /admin/products/import (admin only)
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Import Product API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		utils.RespondError(w, &logMessageBuilder, "URL is required", http.StatusBadRequest)
		return
	}
	switch req.Category {
	case models.CategoryClothes, models.CategoryAccessories, models.CategoryShoes:
	default:
		utils.RespondError(w, &logMessageBuilder, "Category must be one of clothes, accessories, shoes", http.StatusBadRequest)
		return
	}

	siteImporter, resolvedURL, err := importer.GetImporter(req.URL)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("No importer for URL: %v", err), http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Importing %s", resolvedURL))

	draft, err := siteImporter.ImportProduct(resolvedURL)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Import failed: %v", err), http.StatusBadGateway)
		return
	}
	if draft.Name == "" {
		utils.RespondError(w, &logMessageBuilder, "Page did not yield a product name", http.StatusUnprocessableEntity)
		return
	}

	// Mirror remote images into our bucket so catalog URLs never depend
	// on the merchant's CDN
	var imageKeys []string
	if len(draft.Images) > 0 {
		urlToKey, err := utils.UploadImagesToS3(r.Context(), draft.Images, "products")
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Image mirroring failed: %v", err))
		}
		for _, src := range draft.Images {
			if key, ok := urlToKey[src]; ok {
				imageKeys = append(imageKeys, key)
			}
		}
	}

	price := draft.Price
	if req.Price > 0 {
		price = req.Price
	}
	if price <= 0 {
		utils.RespondError(w, &logMessageBuilder, "No price found on page; supply one in the request", http.StatusUnprocessableEntity)
		return
	}

	product := models.Product{
		Name:          draft.Name,
		Brand:         draft.Brand,
		Category:      req.Category,
		Subcategory:   draft.Subcategory,
		Description:   draft.Description,
		Price:         price,
		OriginalPrice: draft.OriginalPrice,
		Images:        imageKeys,
		Colors:        draft.Colors,
		Sizes:         draft.Sizes,
		Gender:        req.Gender,
		Tags:          req.Tags,
		StockQty:      req.StockQty,
		SourceURL:     draft.SourceURL,
	}

	if err := h.Products.Create(r.Context(), &product); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to create product: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Imported product %s from %s", product.ID.Hex(), resolvedURL))
	utils.RespondJSON(w, http.StatusCreated, product)
}
