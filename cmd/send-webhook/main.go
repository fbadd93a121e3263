// Command send-webhook posts a signed sample event to a locally running API,
// for exercising the webhook endpoint without Paystack in the loop.
//
// Usage:
//
//	PAYSTACK_SECRET_KEY=sk_test_xxx go run ./cmd/send-webhook \
//	    -url http://localhost:8080/webhooks/paystack \
//	    -event charge.success -reference ref_123
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/paystack", "webhook endpoint")
	event := flag.String("event", "charge.success", "event type to send")
	reference := flag.String("reference", "ref_sample_001", "transaction reference / transfer, customer, subscription or request code")
	amount := flag.Int64("amount", 500000, "amount in subunits")
	flag.Parse()

	secret := os.Getenv("PAYSTACK_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "PAYSTACK_SECRET_KEY is required")
		os.Exit(1)
	}

	body, err := buildPayload(*event, *reference, *amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, webhook.Sign(body, []byte(secret)))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	fmt.Printf("%s\n%s\n", resp.Status, respBody)
}

func buildPayload(event, reference string, amount int64) ([]byte, error) {
	data := map[string]any{
		"id":       1234567890,
		"amount":   amount,
		"currency": "NGN",
		"status":   "success",
		"paid_at":  time.Now().UTC().Format(time.RFC3339),
		"customer": map[string]any{
			"customer_code": "CUS_sample",
			"email":         "sample@example.com",
		},
	}

	// The endpoint derives identity from different fields per event family.
	switch {
	case strings.HasPrefix(event, "charge."):
		data["reference"] = reference
		data["channel"] = "card"
	case strings.HasPrefix(event, "transfer."):
		data["transfer_code"] = reference
		data["transferred_at"] = time.Now().UTC().Format(time.RFC3339)
	case strings.HasPrefix(event, "customeridentification."):
		data["customer_code"] = reference
	case strings.HasPrefix(event, "subscription."):
		data["subscription_code"] = reference
		data["plan"] = map[string]any{"plan_code": "PLN_sample"}
	case strings.HasPrefix(event, "invoice."), strings.HasPrefix(event, "paymentrequest."):
		data["request_code"] = reference
		data["description"] = "sample invoice"
	default:
		return nil, fmt.Errorf("no sample payload for event %q", event)
	}

	return json.Marshal(map[string]any{"event": event, "data": data})
}
