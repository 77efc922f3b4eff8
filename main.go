package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/threadora/threadora-backend/api"
	"github.com/threadora/threadora-backend/config"
	"github.com/threadora/threadora-backend/dresser"
	"github.com/threadora/threadora-backend/importer"
	"github.com/threadora/threadora-backend/importer/generic"
	"github.com/threadora/threadora-backend/importer/shopify"
	"github.com/threadora/threadora-backend/payment"
	"github.com/threadora/threadora-backend/store"
	"github.com/threadora/threadora-backend/utils"
)

func main() {
	config.LoadConfig()

	db, err := store.Connect(config.MongoURI, config.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// The generic importer matches anything, so it registers last
	importer.RegisterImporters(
		shopify.NewShopifyImporter(),
		generic.NewGenericImporter(),
	)

	products := store.NewProductStore(db)
	users := store.NewUserStore(db)
	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db)
	looks := store.NewLookStore(db)
	access := store.NewAccessStore(db)

	gateway := payment.NewGatewayClient(config.PaymentBaseURL, config.PaymentKeyID, config.PaymentKeySecret)

	accountHandler := api.NewAccountHandler(users)
	oauthHandler := api.NewOAuthHandler(users)
	productHandler := api.NewProductHandler(products)
	cartHandler := api.NewCartHandler(carts, products)
	orderHandler := api.NewOrderHandler(orders, carts, products, users, access, gateway)
	dresserHandler := api.NewDresserHandler(dresser.NewEngine(), dresser.NewGate(access), products, looks)
	importHandler := api.NewImportHandler(products)

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Guest-ID, X-Admin-Key")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Auth routes
	http.HandleFunc("/auth/signup", corsMiddleware(accountHandler.Signup))
	http.HandleFunc("/auth/login", corsMiddleware(accountHandler.Login))
	http.HandleFunc("/auth/verify-email", corsMiddleware(accountHandler.VerifyEmail))
	http.HandleFunc("/auth/verify-otp", corsMiddleware(accountHandler.VerifyOTP))
	http.HandleFunc("/auth/forgot-password", corsMiddleware(accountHandler.ForgotPassword))
	http.HandleFunc("/auth/reset-password", corsMiddleware(accountHandler.ResetPassword))
	http.HandleFunc("/auth/google/login", corsMiddleware(oauthHandler.GoogleLogin))
	http.HandleFunc("/auth/google/callback", corsMiddleware(oauthHandler.GoogleCallback))

	// Catalog routes
	http.HandleFunc("/products", corsMiddleware(productHandler.List))
	http.HandleFunc("/products/get", corsMiddleware(productHandler.Get))

	// Cart routes (account or guest via X-Guest-ID)
	http.HandleFunc("/cart", corsMiddleware(api.OptionalAuthMiddleware(cartHandler.Get)))
	http.HandleFunc("/cart/items", corsMiddleware(api.OptionalAuthMiddleware(cartItemsRouter(cartHandler))))

	// Order routes
	http.HandleFunc("/orders/checkout", corsMiddleware(api.OptionalAuthMiddleware(orderHandler.Checkout)))
	http.HandleFunc("/orders", corsMiddleware(api.OptionalAuthMiddleware(orderHandler.List)))
	http.HandleFunc("/orders/get", corsMiddleware(api.OptionalAuthMiddleware(orderHandler.Get)))
	http.HandleFunc("/webhooks/payment", orderHandler.PaymentWebhook)

	// AI Dresser routes (accounts only)
	http.HandleFunc("/dresser/access", corsMiddleware(api.AuthMiddleware(dresserHandler.Access)))
	http.HandleFunc("/dresser/recommend", corsMiddleware(api.AuthMiddleware(dresserHandler.Recommend)))
	http.HandleFunc("/dresser/looks", corsMiddleware(api.AuthMiddleware(looksRouter(dresserHandler))))
	http.HandleFunc("/dresser/visualize", corsMiddleware(api.AuthMiddleware(dresserHandler.Visualize)))

	// Admin routes
	http.HandleFunc("/admin/products", corsMiddleware(api.AdminMiddleware(productHandler.Create)))
	http.HandleFunc("/admin/products/import", corsMiddleware(api.AdminMiddleware(importHandler.Import)))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// cartItemsRouter dispatches /cart/items by method
func cartItemsRouter(h *api.CartHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.AddItem(w, r)
		case http.MethodPut:
			h.UpdateItem(w, r)
		case http.MethodDelete:
			h.RemoveItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// looksRouter dispatches /dresser/looks by method
func looksRouter(h *api.DresserHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListLooks(w, r)
		case http.MethodPost:
			h.SaveLook(w, r)
		case http.MethodDelete:
			h.DeleteLook(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
