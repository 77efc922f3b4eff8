package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadora/threadora-backend/config"
	"github.com/threadora/threadora-backend/models"
	"github.com/threadora/threadora-backend/payment"
)

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	f.orders[order.ID.Hex()] = order
	return nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		order := *o
		return &order, nil
	}
	return nil, errors.New("order not found")
}

func (f *fakeOrderStore) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.GatewayOrderID == gatewayOrderID {
			order := *o
			return &order, nil
		}
	}
	return nil, errors.New("order not found")
}

func (f *fakeOrderStore) FindByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderStore) SetGatewayOrderID(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) error {
	f.orders[id.Hex()].GatewayOrderID = gatewayOrderID
	return nil
}

func (f *fakeOrderStore) MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayPaymentID string) (bool, error) {
	o, ok := f.orders[id.Hex()]
	if !ok || o.Status != models.OrderPendingPayment {
		return false, nil
	}
	o.Status = models.OrderPaid
	o.GatewayPaymentID = gatewayPaymentID
	return true, nil
}

func (f *fakeOrderStore) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID) (bool, error) {
	o, ok := f.orders[id.Hex()]
	if !ok || o.Status != models.OrderPendingPayment {
		return false, nil
	}
	o.Status = models.OrderPaymentFailed
	return true, nil
}

type fakeCartStore struct {
	cart    models.Cart
	cleared bool
}

func (f *fakeCartStore) Get(ctx context.Context, ownerID string, isGuest bool) (*models.Cart, error) {
	cart := f.cart
	return &cart, nil
}

func (f *fakeCartStore) Clear(ctx context.Context, ownerID string) error {
	f.cleared = true
	return nil
}

// fakeStockStore tracks the net reserved quantity per product: positive
// decrements reserve, negative ones release.
type fakeStockStore struct {
	reserved map[string]int
}

func newFakeStockStore() *fakeStockStore {
	return &fakeStockStore{reserved: map[string]int{}}
}

func (f *fakeStockStore) DecrementStock(ctx context.Context, id string, qty int) error {
	f.reserved[id] += qty
	return nil
}

type fakeUserStore struct{}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, errors.New("user not found")
}

type fakeAccessStore struct {
	credited int
}

func (f *fakeAccessStore) CreditBonus(ctx context.Context, userID string, sessions int) error {
	f.credited += sessions
	return nil
}

type fakeGateway struct {
	order *payment.GatewayOrder
	err   error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, receipt string, amount float64, currency string) (*payment.GatewayOrder, error) {
	return f.order, f.err
}

func signWebhookBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCheckoutReleasesStockWhenGatewayFails(t *testing.T) {
	orders := newFakeOrderStore()
	stock := newFakeStockStore()
	carts := &fakeCartStore{cart: models.Cart{
		OwnerID: "guest-1",
		IsGuest: true,
		Items: []models.CartItem{
			{ProductID: "p1", Name: "White Tee", Price: 1000, Quantity: 2},
			{ProductID: "p2", Name: "Slim Jeans", Price: 1800, Quantity: 1},
		},
	}}
	handler := NewOrderHandler(orders, carts, stock, &fakeUserStore{}, &fakeAccessStore{}, &fakeGateway{err: errors.New("gateway down")})

	body := []byte(`{"payment_method":"gateway","email":"guest@example.com","shipping":{"name":"A B","line1":"1 Main St","city":"Pune","pincode":"411001"}}`)
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewReader(body))
	req.Header.Set("X-Guest-ID", "guest-1")
	rr := httptest.NewRecorder()
	handler.Checkout(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("want %d, got %d: %s", http.StatusBadGateway, rr.Code, rr.Body.String())
	}
	for _, id := range []string{"p1", "p2"} {
		if stock.reserved[id] != 0 {
			t.Errorf("stock for %s not released after gateway failure: net %d", id, stock.reserved[id])
		}
	}
	for _, o := range orders.orders {
		if o.Status != models.OrderPaymentFailed {
			t.Errorf("order status: want %s, got %s", models.OrderPaymentFailed, o.Status)
		}
	}
}

func TestPaymentFailedWebhookReleasesStockOnce(t *testing.T) {
	oldSecret := config.PaymentWebhookSecret
	config.PaymentWebhookSecret = "whsec_test"
	defer func() { config.PaymentWebhookSecret = oldSecret }()

	orders := newFakeOrderStore()
	order := &models.Order{
		OwnerID:        "guest-1",
		IsGuest:        true,
		Status:         models.OrderPendingPayment,
		GatewayOrderID: "order_GW1",
		Items:          []models.OrderItem{{ProductID: "p1", Name: "White Tee", Price: 1000, Quantity: 3}},
		Total:          3000,
	}
	if err := orders.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	stock := newFakeStockStore()
	handler := NewOrderHandler(orders, &fakeCartStore{}, stock, &fakeUserStore{}, &fakeAccessStore{}, &fakeGateway{})

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_GW1","status":"failed"}}}}`)
	signature := signWebhookBody(body, "whsec_test")

	deliver := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", signature)
		rr := httptest.NewRecorder()
		handler.PaymentWebhook(rr, req)
		return rr
	}

	if rr := deliver(); rr.Code != http.StatusOK {
		t.Fatalf("first delivery: want 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := stock.reserved["p1"]; got != -3 {
		t.Fatalf("first delivery should release 3 units, net %d", got)
	}
	if orders.orders[order.ID.Hex()].Status != models.OrderPaymentFailed {
		t.Errorf("order not marked payment_failed")
	}

	// Replayed delivery must be acknowledged without touching stock again
	if rr := deliver(); rr.Code != http.StatusOK {
		t.Fatalf("replay: want 200, got %d", rr.Code)
	}
	if got := stock.reserved["p1"]; got != -3 {
		t.Errorf("replay released stock again: net %d", got)
	}
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	oldSecret := config.PaymentWebhookSecret
	config.PaymentWebhookSecret = "whsec_test"
	defer func() { config.PaymentWebhookSecret = oldSecret }()

	orders := newFakeOrderStore()
	stock := newFakeStockStore()
	handler := NewOrderHandler(orders, &fakeCartStore{}, stock, &fakeUserStore{}, &fakeAccessStore{}, &fakeGateway{})

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"order_id":"order_GW1"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signWebhookBody(body, "wrong-secret"))
	rr := httptest.NewRecorder()
	handler.PaymentWebhook(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 for a bad signature, got %d", rr.Code)
	}
	if len(stock.reserved) != 0 {
		t.Errorf("unverified webhook touched stock: %v", stock.reserved)
	}
}
