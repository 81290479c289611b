package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/drmadhusudhan/clinic-api/config"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := NewRazorpayGateway(config.RazorpayConfig{KeyID: "rzp_test", KeySecret: "secret123"})

	valid := sign("secret123", "order_abc", "pay_xyz")
	if !g.VerifySignature("order_abc", "pay_xyz", valid) {
		t.Error("expected valid signature to verify")
	}
	if g.VerifySignature("order_abc", "pay_other", valid) {
		t.Error("signature must bind to the payment id")
	}
	if g.VerifySignature("order_abc", "pay_xyz", sign("wrong-secret", "order_abc", "pay_xyz")) {
		t.Error("signature from the wrong secret must fail")
	}
	if g.VerifySignature("order_abc", "pay_xyz", "") {
		t.Error("empty signature must fail")
	}
}

func TestOrderFromBody(t *testing.T) {
	o := orderFromBody(map[string]interface{}{
		"id":       "order_abc",
		"amount":   float64(50000),
		"currency": "INR",
		"notes": map[string]interface{}{
			"date": "2026-09-10",
			"time": "20:30",
		},
	})

	if o.ID != "order_abc" || o.Amount != 50000 || o.Currency != "INR" {
		t.Errorf("unexpected order %+v", o)
	}
	if o.Notes["date"] != "2026-09-10" || o.Notes["time"] != "20:30" {
		t.Errorf("unexpected notes %v", o.Notes)
	}
}
