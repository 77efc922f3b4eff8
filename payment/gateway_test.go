package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)
	secret := "whsec_test"

	if !VerifyWebhookSignature(payload, sign(payload, secret), secret) {
		t.Error("valid signature rejected")
	}
	if VerifyWebhookSignature(payload, sign(payload, "other_secret"), secret) {
		t.Error("signature from the wrong secret accepted")
	}
	if VerifyWebhookSignature([]byte(`tampered`), sign(payload, secret), secret) {
		t.Error("signature over different payload accepted")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Error("empty signature accepted")
	}
	if VerifyWebhookSignature(payload, sign(payload, ""), "") {
		t.Error("empty secret accepted")
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Error("missing or wrong basic auth")
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if amount := body["amount"].(float64); amount != 459900 {
			t.Errorf("amount in paise: want 459900, got %v", amount)
		}
		if body["currency"] != "INR" {
			t.Errorf("currency: want INR, got %v", body["currency"])
		}
		if body["receipt"] != "order123" {
			t.Errorf("receipt: want order123, got %v", body["receipt"])
		}

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_ABC123",
			Amount:   459900,
			Currency: "INR",
			Receipt:  "order123",
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "key_id", "key_secret")
	order, err := client.CreateOrder(context.Background(), "order123", 4599, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_ABC123" {
		t.Errorf("order ID: got %q", order.ID)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "key_id", "bad_secret")
	if _, err := client.CreateOrder(context.Background(), "order123", 100, "INR"); err == nil {
		t.Fatal("expected an error for a 401 response")
	}
}

func TestCreateOrderWithoutCredentials(t *testing.T) {
	client := NewGatewayClient("http://localhost:0", "", "")
	if _, err := client.CreateOrder(context.Background(), "order123", 100, "INR"); err == nil {
		t.Fatal("expected an error when credentials are unset")
	}
}
