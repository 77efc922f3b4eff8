package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/store"
	"github.com/threadora/threadora-backend/utils"
)

// ProductHandler serves the public catalog and admin product management
type ProductHandler struct {
	Products *store.ProductStore
}

func NewProductHandler(products *store.ProductStore) *ProductHandler {
	return &ProductHandler{Products: products}
}

// List handles GET /products with filters and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Products API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := store.ProductFilter{
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   q.Get("sort_by"),
		SortDesc: q.Get("sort_order") == "desc",
	}

	products, total, err := h.Products.Find(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to list products: %v", err), http.StatusInternalServerError)
		return
	}

	for i := range products {
		products[i].Images = utils.PresignImageURLs(r.Context(), products[i].Images)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d of %d products", len(products), total))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}

// Get handles GET /products/get?id=<hex>
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Product API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondError(w, &logMessageBuilder, "Product ID is required", http.StatusBadRequest)
		return
	}

	product, err := h.Products.FindByID(r.Context(), id)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Product lookup failed: %v", err), http.StatusNotFound)
		return
	}

	product.Images = utils.PresignImageURLs(r.Context(), product.Images)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning product %s", id))
	utils.RespondJSON(w, http.StatusOK, product)
}

// Create handles POST /admin/products (admin only)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Product API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.Category == "" || product.Price <= 0 {
		utils.RespondError(w, &logMessageBuilder, "Name, Category and a positive Price are required", http.StatusBadRequest)
		return
	}
	switch product.Category {
	case models.CategoryClothes, models.CategoryAccessories, models.CategoryShoes:
	default:
		utils.RespondError(w, &logMessageBuilder, "Category must be one of clothes, accessories, shoes", http.StatusBadRequest)
		return
	}

	if err := h.Products.Create(r.Context(), &product); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to create product: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created product %s", product.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, product)
}
