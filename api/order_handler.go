package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadora/threadora-backend/config"
	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/payment"
	"github.com/threadora/threadora-backend/utils"
)

// Paid orders earn one bonus AI Dresser session.
const bonusSessionsPerOrder = 1

// The handler consumes its stores through narrow interfaces so the
// payment paths can be exercised without a database.
type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	FindByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Order, int64, error)
	SetGatewayOrderID(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayPaymentID string) (bool, error)
	MarkPaymentFailed(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type cartStore interface {
	Get(ctx context.Context, ownerID string, isGuest bool) (*models.Cart, error)
	Clear(ctx context.Context, ownerID string) error
}

type stockStore interface {
	DecrementStock(ctx context.Context, id string, qty int) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type bonusCrediter interface {
	CreditBonus(ctx context.Context, userID string, sessions int) error
}

type paymentGateway interface {
	CreateOrder(ctx context.Context, receipt string, amount float64, currency string) (*payment.GatewayOrder, error)
}

// OrderHandler serves checkout, order history and the payment webhook
type OrderHandler struct {
	Orders   orderStore
	Carts    cartStore
	Products stockStore
	Users    userFinder
	Access   bonusCrediter
	Gateway  paymentGateway
}

func NewOrderHandler(orders orderStore, carts cartStore, products stockStore, users userFinder, access bonusCrediter, gateway paymentGateway) *OrderHandler {
	return &OrderHandler{Orders: orders, Carts: carts, Products: products, Users: users, Access: access, Gateway: gateway}
}

// CheckoutRequest represents the payload for placing an order from the cart
type CheckoutRequest struct {
	PaymentMethod string                 `json:"payment_method"` // gateway, cod
	Email         string                 `json:"email"`          // required for guest orders
	Shipping      models.ShippingAddress `json:"shipping"`
}

// Checkout handles POST /orders/checkout: freezes the cart into an order
// and, for gateway payments, registers the order with the provider.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Checkout API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, isGuest, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "gateway"
	}
	if req.PaymentMethod != "gateway" && req.PaymentMethod != "cod" {
		utils.RespondError(w, &logMessageBuilder, "Payment method must be gateway or cod", http.StatusBadRequest)
		return
	}
	if req.Shipping.Name == "" || req.Shipping.Line1 == "" || req.Shipping.City == "" || req.Shipping.Pincode == "" {
		utils.RespondError(w, &logMessageBuilder, "Shipping name, line1, city and pincode are required", http.StatusBadRequest)
		return
	}

	email := req.Email
	if isGuest && email == "" {
		utils.RespondError(w, &logMessageBuilder, "Email is required for guest orders", http.StatusBadRequest)
		return
	}
	if !isGuest && email == "" {
		if user, err := h.Users.FindByID(r.Context(), ownerID); err == nil {
			email = user.Email
		}
	}

	cart, err := h.Carts.Get(r.Context(), ownerID, isGuest)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to fetch cart: %v", err), http.StatusInternalServerError)
		return
	}
	if len(cart.Items) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Cart is empty", http.StatusBadRequest)
		return
	}

	// Reserve stock line by line; undo on failure
	var reserved []models.CartItem
	for _, item := range cart.Items {
		if err := h.Products.DecrementStock(r.Context(), item.ProductID, item.Quantity); err != nil {
			for _, done := range reserved {
				h.Products.DecrementStock(r.Context(), done.ProductID, -done.Quantity)
			}
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("%s is no longer available in the requested quantity", item.Name), http.StatusConflict)
			return
		}
		reserved = append(reserved, item)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Brand:     ci.Brand,
			Price:     ci.Price,
			Image:     ci.Image,
			Size:      ci.Size,
			Color:     ci.Color,
			Quantity:  ci.Quantity,
		})
	}

	order := models.Order{
		OwnerID:       ownerID,
		IsGuest:       isGuest,
		Email:         email,
		Items:         items,
		Total:         cart.Total(),
		Status:        models.OrderPendingPayment,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.Shipping,
	}

	if req.PaymentMethod == "cod" {
		// Cash on delivery skips the gateway; the order is final immediately.
		order.Status = models.OrderPaid
	}

	if err := h.Orders.Create(r.Context(), &order); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to create order: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"message": "Order created",
		"order":   order,
	}

	if req.PaymentMethod == "gateway" {
		gatewayOrder, err := h.Gateway.CreateOrder(r.Context(), order.ID.Hex(), order.Total, "INR")
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Gateway order creation failed: %v", err))
			if moved, failErr := h.Orders.MarkPaymentFailed(r.Context(), order.ID); failErr != nil {
				utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to mark order payment_failed: %v", failErr))
			} else if moved {
				h.releaseStock(r, order.Items, &logMessageBuilder)
			}
			utils.RespondError(w, &logMessageBuilder, "Payment gateway is unavailable, please try again", http.StatusBadGateway)
			return
		}
		order.GatewayOrderID = gatewayOrder.ID
		if err := h.Orders.SetGatewayOrderID(r.Context(), order.ID, gatewayOrder.ID); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to persist gateway order ID: %v", err))
		}
		response["order"] = order
		response["gateway_order"] = gatewayOrder
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created gateway order %s for order %s", gatewayOrder.ID, order.ID.Hex()))
	} else {
		h.finalizeOrder(r, &order, &logMessageBuilder)
	}

	if err := h.Carts.Clear(r.Context(), ownerID); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to clear cart: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s placed by %s", order.ID.Hex(), ownerID))
	utils.RespondJSON(w, http.StatusCreated, response)
}

// releaseStock returns reserved quantities to the catalog once an order
// moves to payment_failed
func (h *OrderHandler) releaseStock(r *http.Request, items []models.OrderItem, logMessageBuilder *strings.Builder) {
	for _, item := range items {
		if err := h.Products.DecrementStock(r.Context(), item.ProductID, -item.Quantity); err != nil {
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to release stock for %s: %v", item.ProductID, err))
		}
	}
}

// finalizeOrder runs post-payment side effects: confirmation email, the
// outbound order webhook, and the bonus dresser session for account orders.
func (h *OrderHandler) finalizeOrder(r *http.Request, order *models.Order, logMessageBuilder *strings.Builder) {
	if order.Email != "" {
		emailErr := utils.SendEmail(order.Shipping.Name, order.Email, "Your Threadora order is confirmed",
			fmt.Sprintf("Order %s for Rs. %.2f has been confirmed. Thank you for shopping with us!", order.ID.Hex(), order.Total),
			fmt.Sprintf("<h2>Order confirmed</h2><p>Order <strong>%s</strong> for Rs. %.2f has been confirmed.</p>", order.ID.Hex(), order.Total))
		if emailErr != nil {
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to send confirmation email: %v", emailErr))
		}
	}

	if err := utils.NotifyOrderEvent("order.paid", order); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Order webhook notify failed: %v", err))
	}

	if !order.IsGuest {
		if err := h.Access.CreditBonus(r.Context(), order.OwnerID, bonusSessionsPerOrder); err != nil {
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to credit bonus session: %v", err))
		} else {
			utils.AddToLogMessage(logMessageBuilder, "Credited bonus dresser session")
		}
	}
}

// List handles GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Orders API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, _, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, total, err := h.Orders.FindByOwner(r.Context(), ownerID, page, limit)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to list orders: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d of %d orders for %s", len(orders), total, ownerID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

// Get handles GET /orders/get?id=<hex>
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Order API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, _, err := OwnerID(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondError(w, &logMessageBuilder, "Order ID is required", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.FindByID(r.Context(), id)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Order lookup failed: %v", err), http.StatusNotFound)
		return
	}
	if order.OwnerID != ownerID {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, order)
}

// gatewayWebhookEvent mirrors the fields we need from the provider's
// webhook body (Razorpay-style nested payment entity).
type gatewayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhook handles POST /webhooks/payment from the gateway.
// Signature failures are rejected; replayed events are acknowledged but
// change nothing because MarkPaid only moves pending orders.
func (h *OrderHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Payment Webhook API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !payment.VerifyWebhookSignature(body, signature, config.PaymentWebhookSecret) {
		utils.RespondError(w, &logMessageBuilder, "Invalid webhook signature", http.StatusUnauthorized)
		return
	}

	var event gatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid webhook body: %v", err), http.StatusBadRequest)
		return
	}

	gatewayOrderID := event.Payload.Payment.Entity.OrderID
	if gatewayOrderID == "" {
		utils.RespondError(w, &logMessageBuilder, "Webhook payload missing order ID", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.FindByGatewayOrderID(r.Context(), gatewayOrderID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Order lookup failed for gateway order %s: %v", gatewayOrderID, err), http.StatusNotFound)
		return
	}

	switch event.Event {
	case "payment.captured":
		moved, err := h.Orders.MarkPaid(r.Context(), order.ID, event.Payload.Payment.Entity.ID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to mark order paid: %v", err), http.StatusInternalServerError)
			return
		}
		if !moved {
			// Replay or already-settled order; acknowledge without side effects
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s already settled, ignoring replay", order.ID.Hex()))
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		order.Status = models.OrderPaid
		h.finalizeOrder(r, order, &logMessageBuilder)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s marked paid", order.ID.Hex()))

	case "payment.failed":
		moved, err := h.Orders.MarkPaymentFailed(r.Context(), order.ID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to mark payment failed: %v", err), http.StatusInternalServerError)
			return
		}
		if !moved {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s already settled, ignoring replay", order.ID.Hex()))
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		h.releaseStock(r, order.Items, &logMessageBuilder)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s marked payment_failed, stock released", order.ID.Hex()))

	default:
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Ignoring webhook event %s", event.Event))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
