package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/threadora/threadora-backend/config"
)

// NotifyOrderEvent posts an order event to the configured webhook URL.
// Best effort: when no URL is configured it is a no-op, and a failed
// delivery is logged, not retried.
func NotifyOrderEvent(event string, payload interface{}) error {
	if config.OrderWebhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"data":      payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(config.OrderWebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("[Webhook] Failed to deliver %s: %v\n", event, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		fmt.Printf("[Webhook] %s delivery returned status %d\n", event, resp.StatusCode)
		return fmt.Errorf("webhook delivery failed, status: %d", resp.StatusCode)
	}
	return nil
}
