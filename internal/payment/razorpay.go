package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/drmadhusudhan/clinic-api/config"
)

// Order is the subset of the gateway order we act on.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Notes    map[string]string
}

// Gateway abstracts the payment provider so services can be tested against
// a fake.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	FetchOrder(orderID string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayGateway wraps the official client. Order notes carry the full
// booking intent so verification can finalize the appointment without any
// server-side session state.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(cfg config.RazorpayConfig) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keySecret: cfg.KeySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}
	return orderFromBody(body), nil
}

func (g *RazorpayGateway) FetchOrder(orderID string) (*Order, error) {
	body, err := g.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching razorpay order %s: %w", orderID, err)
	}
	return orderFromBody(body), nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(order_id + "|" + payment_id, key_secret) in hex.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func orderFromBody(body map[string]interface{}) *Order {
	o := &Order{}
	if v, ok := body["id"].(string); ok {
		o.ID = v
	}
	if v, ok := body["currency"].(string); ok {
		o.Currency = v
	}
	switch v := body["amount"].(type) {
	case float64:
		o.Amount = int64(v)
	case int64:
		o.Amount = v
	}
	if raw, ok := body["notes"].(map[string]interface{}); ok {
		o.Notes = make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				o.Notes[k] = s
			}
		}
	}
	return o
}
