package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderPendingPayment = "pending_payment"
	OrderPaid           = "paid"
	OrderPaymentFailed  = "payment_failed"
	OrderCancelled      = "cancelled"
)

// OrderItem is a line item frozen at checkout time
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Brand     string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Size      string  `bson:"size,omitempty" json:"size,omitempty"`
	Color     string  `bson:"color,omitempty" json:"color,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// ShippingAddress captures where the order goes
type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Line1   string `bson:"line1" json:"line1"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode string `bson:"pincode" json:"pincode"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order represents a placed order, guest or account.
// OwnerID is the user ID for account orders and the guest ID for guest
// orders; guest orders must carry an Email for the confirmation mail.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID          string             `bson:"owner_id" json:"owner_id"`
	IsGuest          bool               `bson:"is_guest" json:"is_guest"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Items            []OrderItem        `bson:"items" json:"items"`
	Total            float64            `bson:"total" json:"total"`
	Status           string             `bson:"status" json:"status"`
	PaymentMethod    string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"` // gateway, cod
	GatewayOrderID   string             `bson:"gateway_order_id,omitempty" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string             `bson:"gateway_payment_id,omitempty" json:"gateway_payment_id,omitempty"`
	Shipping         ShippingAddress    `bson:"shipping" json:"shipping"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
	PaidAt           time.Time          `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
