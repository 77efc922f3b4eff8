package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/store"
	"github.com/threadora/threadora-backend/utils"
)

// CartHandler serves cart routes for both account and guest owners
type CartHandler struct {
	Carts    *store.CartStore
	Products *store.ProductStore
}

func NewCartHandler(carts *store.CartStore, products *store.ProductStore) *CartHandler {
	return &CartHandler{Carts: carts, Products: products}
}

// AddItemRequest represents the payload for adding a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest represents the payload for changing a line's quantity
type UpdateItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Get handles GET /cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Cart API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, isGuest, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	cart, err := h.Carts.Get(r.Context(), ownerID, isGuest)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to fetch cart: %v", err), http.StatusInternalServerError)
		return
	}

	for i := range cart.Items {
		if cart.Items[i].Image != "" {
			if urls := utils.PresignImageURLs(r.Context(), []string{cart.Items[i].Image}); len(urls) == 1 {
				cart.Items[i].Image = urls[0]
			}
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cart for %s has %d items", ownerID, len(cart.Items)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Add Cart Item API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, isGuest, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		utils.RespondError(w, &logMessageBuilder, "Product ID is required", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := h.Products.FindByID(r.Context(), req.ProductID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Product lookup failed: %v", err), http.StatusNotFound)
		return
	}
	if !product.Available() {
		utils.RespondError(w, &logMessageBuilder, "Product is out of stock", http.StatusConflict)
		return
	}

	item := models.CartItem{
		ProductID: req.ProductID,
		Name:      product.Name,
		Brand:     product.Brand,
		Price:     product.Price,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}

	if err := h.Carts.AddItem(r.Context(), ownerID, isGuest, item); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to add item: %v", err), http.StatusInternalServerError)
		return
	}

	cart, err := h.Carts.Get(r.Context(), ownerID, isGuest)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to fetch cart: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Added %s x%d to cart %s", req.ProductID, req.Quantity, ownerID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item added to cart",
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// UpdateItem handles PUT /cart/items; quantity zero removes the line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Cart Item API]")

	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, isGuest, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		utils.RespondError(w, &logMessageBuilder, "Product ID is required", http.StatusBadRequest)
		return
	}

	if err := h.Carts.UpdateItemQuantity(r.Context(), ownerID, req.ProductID, req.Size, req.Color, req.Quantity); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to update item: %v", err), http.StatusNotFound)
		return
	}

	cart, err := h.Carts.Get(r.Context(), ownerID, isGuest)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to fetch cart: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated %s to qty %d in cart %s", req.ProductID, req.Quantity, ownerID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Cart updated",
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// RemoveItem handles DELETE /cart/items
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Remove Cart Item API]")

	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, isGuest, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		utils.RespondError(w, &logMessageBuilder, "Product ID is required", http.StatusBadRequest)
		return
	}

	if err := h.Carts.RemoveItem(r.Context(), ownerID, req.ProductID, req.Size, req.Color); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to remove item: %v", err), http.StatusNotFound)
		return
	}

	cart, err := h.Carts.Get(r.Context(), ownerID, isGuest)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to fetch cart: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Removed %s from cart %s", req.ProductID, ownerID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item removed",
		"cart":    cart,
		"total":   cart.Total(),
	})
}
