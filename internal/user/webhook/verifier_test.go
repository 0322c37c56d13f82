package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func sign(t *testing.T, msgID string, ts time.Time, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(testSecret[len("whsec_"):])
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%d.%s", msgID, ts.Unix(), payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyValidSignature(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	now := time.Now()
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	sig := sign(t, "msg_1", now, payload)

	if err := verifier.Verify("msg_1", strconv.FormatInt(now.Unix(), 10), sig, payload, now); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	now := time.Now()
	sig := sign(t, "msg_1", now, []byte(`{"a":1}`))

	err = verifier.Verify("msg_1", strconv.FormatInt(now.Unix(), 10), sig, []byte(`{"a":2}`), now)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	now := time.Now()
	sent := now.Add(-10 * time.Minute)
	payload := []byte(`{}`)
	sig := sign(t, "msg_1", sent, payload)

	err = verifier.Verify("msg_1", strconv.FormatInt(sent.Unix(), 10), sig, payload, now)
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyMissingHeaders(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if err := verifier.Verify("", "", "", nil, time.Now()); !errors.Is(err, ErrMissingHeaders) {
		t.Fatalf("expected ErrMissingHeaders, got %v", err)
	}
}
