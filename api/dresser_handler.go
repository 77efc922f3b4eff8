package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threadora/threadora-backend/dresser"
	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/store"
	"github.com/threadora/threadora-backend/utils"
)

// DresserHandler serves the AI Dresser: quota checks, recommendations,
// the saved-look gallery and Gemini look visualization.
type DresserHandler struct {
	Engine   *dresser.Engine
	Gate     *dresser.Gate
	Products *store.ProductStore
	Looks    *store.LookStore
}

func NewDresserHandler(engine *dresser.Engine, gate *dresser.Gate, products *store.ProductStore, looks *store.LookStore) *DresserHandler {
	return &DresserHandler{Engine: engine, Gate: gate, Products: products, Looks: looks}
}

// catalogStore adapts ProductStore to the engine's provider interface
type catalogStore struct {
	products *store.ProductStore
}

func (c catalogStore) Catalog(ctx context.Context) ([]models.Product, error) {
	return c.products.FindAllAvailable(ctx)
}

// RecommendRequest represents the payload for a dresser session.
// Products, when present, is the catalog snapshot the client wants the
// looks drawn from; otherwise the server catalog is used.
type RecommendRequest struct {
	Answers  dresser.QuizAnswers `json:"answers"`
	Products []models.Product    `json:"products,omitempty"`
}

// SaveLookRequest represents the payload for saving a look to the gallery
type SaveLookRequest struct {
	SessionID string       `json:"session_id"`
	Look      dresser.Look `json:"look"`
}

// VisualizeRequest represents the payload for rendering a saved look
type VisualizeRequest struct {
	LookID         string `json:"look_id"`
	PersonImageURL string `json:"person_image_url,omitempty"`
}

// Access handles GET /dresser/access without consuming a session
func (h *DresserHandler) Access(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Dresser Access API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status, err := h.Gate.Check(r.Context(), userID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Quota check failed: %v", err))
		// Fail closed: report no access rather than guessing
		utils.RespondJSON(w, http.StatusOK, status)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Access for %s: %s", userID, status.AccessType))
	utils.RespondJSON(w, http.StatusOK, status)
}

// Recommend handles POST /dresser/recommend. One successful call
// consumes one metered session.
func (h *DresserHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Dresser Recommend API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	status, err := h.Gate.Grant(r.Context(), userID)
	if err != nil {
		var denied *dresser.AccessDeniedError
		if errors.As(err, &denied) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Access denied for %s, resets at %s", userID, denied.ResetsAt))
			utils.RespondJSON(w, http.StatusForbidden, map[string]interface{}{
				"error":    "No dresser sessions available today",
				"resetsAt": denied.ResetsAt,
			})
			return
		}
		utils.RespondError(w, &logMessageBuilder, "Dresser is temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Granted %s session to %s", status.AccessType, userID))

	var provider dresser.CatalogProvider
	if len(req.Products) > 0 {
		provider = dresser.StaticCatalog(req.Products)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Using client catalog of %d products", len(req.Products)))
	} else {
		provider = catalogStore{products: h.Products}
		utils.AddToLogMessage(&logMessageBuilder, "Using server catalog")
	}

	looks, err := h.Engine.Recommend(r.Context(), provider, req.Answers)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to build recommendations", http.StatusServiceUnavailable)
		return
	}

	for i := range looks {
		for j := range looks[i].Items {
			if img := looks[i].Items[j].Image; img != "" {
				if urls := utils.PresignImageURLs(r.Context(), []string{img}); len(urls) == 1 {
					looks[i].Items[j].Image = urls[0]
				}
			}
		}
	}

	sessionID := uuid.New().String()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Session %s produced %d looks", sessionID, len(looks)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"looks":      looks,
		"access":     status,
	})
}

// SaveLook handles POST /dresser/looks: copies one look into the gallery
func (h *DresserHandler) SaveLook(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Save Look API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveLookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Look.Items) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Look has no items", http.StatusBadRequest)
		return
	}

	items := make([]models.SavedLookItem, 0, len(req.Look.Items))
	for _, it := range req.Look.Items {
		items = append(items, models.SavedLookItem{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Brand:       it.Brand,
			Category:    it.Category,
			Price:       it.Price,
			Image:       it.Image,
			StylingNote: it.StylingNote,
		})
	}

	saved := models.SavedLook{
		UserID:      userID,
		SessionID:   req.SessionID,
		LookNumber:  req.Look.LookNumber,
		LookName:    req.Look.LookName,
		Description: req.Look.LookDescription,
		Items:       items,
		TotalPrice:  req.Look.TotalPrice,
		StyleTip:    req.Look.StyleTip,
	}

	if err := h.Looks.Create(r.Context(), &saved); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to save look: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved look %s for %s", saved.ID.Hex(), userID))
	utils.RespondJSON(w, http.StatusCreated, saved)
}

// ListLooks handles GET /dresser/looks: the user's saved-look gallery
func (h *DresserHandler) ListLooks(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Looks API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	looks, total, err := h.Looks.FindByUser(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to list looks: %v", err), http.StatusInternalServerError)
		return
	}

	for i := range looks {
		for j := range looks[i].Items {
			if img := looks[i].Items[j].Image; img != "" {
				if urls := utils.PresignImageURLs(r.Context(), []string{img}); len(urls) == 1 {
					looks[i].Items[j].Image = urls[0]
				}
			}
		}
		if looks[i].RenderedImage != "" {
			if urls := utils.PresignImageURLs(r.Context(), []string{looks[i].RenderedImage}); len(urls) == 1 {
				looks[i].RenderedImage = urls[0]
			}
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d of %d looks for %s", len(looks), total, userID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"looks": looks,
		"total": total,
	})
}

// DeleteLook handles DELETE /dresser/looks?id=<hex>
func (h *DresserHandler) DeleteLook(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Look API]")

	if r.Method != http.MethodDelete {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondError(w, &logMessageBuilder, "Look ID is required", http.StatusBadRequest)
		return
	}

	if err := h.Looks.SoftDelete(r.Context(), id, userID); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to delete look: %v", err), http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted look %s for %s", id, userID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Look deleted"})
}

// Visualize handles POST /dresser/visualize: renders a saved look with
// Gemini, uploads the result to S3 and records the key on the look.
func (h *DresserHandler) Visualize(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Visualize Look API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req VisualizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.LookID == "" {
		utils.RespondError(w, &logMessageBuilder, "Look ID is required", http.StatusBadRequest)
		return
	}

	look, err := h.Looks.FindByID(r.Context(), req.LookID, userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Look lookup failed: %v", err), http.StatusNotFound)
		return
	}

	var itemImages []string
	var styleNotes []string
	for _, it := range look.Items {
		if it.Image != "" {
			itemImages = append(itemImages, it.Image)
		}
		if it.StylingNote != "" {
			styleNotes = append(styleNotes, it.Name+": "+it.StylingNote)
		}
	}
	itemImages = utils.PresignImageURLs(r.Context(), itemImages)

	// Image generation regularly takes longer than a default client timeout
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	imageData, err := utils.GenerateOutfitImage(ctx, req.PersonImageURL, itemImages, look.LookName, strings.Join(styleNotes, "; "))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to generate look image: %v", err), http.StatusBadGateway)
		return
	}

	objectKey := fmt.Sprintf("looks/%s/%s.png", userID, look.ID.Hex())
	if _, err := utils.UploadFileToS3(ctx, bytes.NewReader(imageData), objectKey, "image/png"); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to upload look image: %v", err), http.StatusInternalServerError)
		return
	}

	if err := h.Looks.SetRenderedImage(r.Context(), look.ID, objectKey); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to record rendered image: %v", err))
	}

	url, err := utils.GetPresignedURL(r.Context(), objectKey)
	if err != nil {
		url = objectKey
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Rendered look %s", look.ID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":   "Look rendered",
		"image_url": url,
	})
}
