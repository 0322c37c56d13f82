package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(t *testing.T, payload, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	if _, err := mac.Write([]byte(payload)); err != nil {
		t.Fatalf("write hmac: %v", err)
	}
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	sig := sign(t, "order_123|pay_456", secret)

	if !VerifySignature("order_123", "pay_456", sig, secret) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifySignature("order_123", "pay_789", sig, secret) {
		t.Fatal("expected mismatched payment id to fail")
	}
	if VerifySignature("order_123", "pay_456", sig, "other_secret") {
		t.Fatal("expected wrong secret to fail")
	}
	if VerifySignature("", "pay_456", sig, secret) {
		t.Fatal("expected empty order id to fail")
	}
	if VerifySignature("order_123", "pay_456", "", secret) {
		t.Fatal("expected empty signature to fail")
	}
}
