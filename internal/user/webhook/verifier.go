// Package webhook verifies signed identity-provider webhook deliveries.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHeaders   = errors.New("missing_webhook_headers")
	ErrInvalidSignature = errors.New("invalid_webhook_signature")
	ErrStaleTimestamp   = errors.New("stale_webhook_timestamp")
)

// tolerance bounds how far a delivery timestamp may drift from server time.
const tolerance = 5 * time.Minute

// Verifier checks webhook deliveries signed with the svix scheme: an
// HMAC-SHA256 over "{id}.{timestamp}.{payload}" keyed with the base64
// portion of a "whsec_" secret.
type Verifier struct {
	key []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("webhook secret is required")
	}
	encoded := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	return &Verifier{key: key}, nil
}

// Verify validates the delivery headers against the raw payload. The
// signature header carries one or more space-separated "v1,<base64>" entries.
func (v *Verifier) Verify(msgID, timestamp, signature string, payload []byte, now time.Time) error {
	msgID = strings.TrimSpace(msgID)
	timestamp = strings.TrimSpace(timestamp)
	signature = strings.TrimSpace(signature)
	if msgID == "" || timestamp == "" || signature == "" {
		return ErrMissingHeaders
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	sent := time.Unix(unix, 0)
	if now.Sub(sent) > tolerance || sent.Sub(now) > tolerance {
		return ErrStaleTimestamp
	}

	signed := fmt.Sprintf("%s.%s.%s", msgID, timestamp, payload)
	mac := hmac.New(sha256.New, v.key)
	_, _ = mac.Write([]byte(signed))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Fields(signature) {
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(parts[1]), []byte(expected)) {
			return nil
		}
	}

	return ErrInvalidSignature
}
