package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/razorpay"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"go.uber.org/zap"
)

type subscriptionStub struct {
	tier     tier.ID
	setCalls int
}

func (s *subscriptionStub) GetOrCreate(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	return &subscriptiondomain.Subscription{ID: 1, UserID: userID, Tier: s.tier, Status: subscriptiondomain.StatusActive}, nil
}

func (s *subscriptionStub) Get(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error) {
	return s.GetOrCreate(ctx, userID)
}

func (s *subscriptionStub) SetTier(ctx context.Context, userID string, id tier.ID) (*subscriptiondomain.Subscription, error) {
	s.setCalls++
	s.tier = id
	return s.GetOrCreate(ctx, userID)
}

func newPaymentService(t *testing.T, endpoint string, subs *subscriptionStub) domain.Service {
	t.Helper()
	catalog, err := tier.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	cfg := config.Config{}
	cfg.Razorpay.KeyID = "rzp_test_key"
	cfg.Razorpay.KeySecret = "rzp_test_secret"
	return NewService(ServiceParam{
		Log:     zap.NewNop(),
		Cfg:     cfg,
		Client:  razorpay.NewClient(endpoint, "rzp_test_key", "rzp_test_secret"),
		Catalog: catalog,
		SubSvc:  subs,
	})
}

func TestCreateOrderForPaidTier(t *testing.T) {
	var gotAmount int64
	var receipts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" {
			t.Errorf("missing basic auth")
		}
		var req razorpay.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode order request: %v", err)
		}
		gotAmount = req.Amount
		receipts = append(receipts, req.Receipt)
		_ = json.NewEncoder(w).Encode(razorpay.Order{
			ID:       "order_test123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer server.Close()

	service := newPaymentService(t, server.URL, &subscriptionStub{tier: tier.Free})
	resp, err := service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: "user_abc",
		Tier:   tier.Pro,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if resp.OrderID != "order_test123" {
		t.Fatalf("unexpected order id %s", resp.OrderID)
	}
	if gotAmount != 500 {
		t.Fatalf("expected 500 paise, got %d", gotAmount)
	}
	if resp.KeyID != "rzp_test_key" {
		t.Fatalf("unexpected key id %s", resp.KeyID)
	}

	if _, err := service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: "user_abc",
		Tier:   tier.Pro,
	}); err != nil {
		t.Fatalf("create second order: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(receipts))
	}
	for _, r := range receipts {
		if !strings.HasPrefix(r, "sub_pro_") {
			t.Fatalf("unexpected receipt %q", r)
		}
	}
	if receipts[0] == receipts[1] {
		t.Fatalf("expected distinct receipts, both were %q", receipts[0])
	}
}

func TestCreateOrderRejectsFreeTier(t *testing.T) {
	service := newPaymentService(t, "http://127.0.0.1:0", &subscriptionStub{tier: tier.Free})
	if _, err := service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: "user_abc",
		Tier:   tier.Free,
	}); err != domain.ErrFreeTierOrder {
		t.Fatalf("expected ErrFreeTierOrder, got %v", err)
	}
}

func TestCreateOrderRejectsUnknownTier(t *testing.T) {
	service := newPaymentService(t, "http://127.0.0.1:0", &subscriptionStub{tier: tier.Free})
	if _, err := service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: "user_abc",
		Tier:   tier.ID("gold"),
	}); err != tier.ErrInvalidTier {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestVerifyAndApplyPromotesSubscription(t *testing.T) {
	subs := &subscriptionStub{tier: tier.Free}
	service := newPaymentService(t, "http://127.0.0.1:0", subs)

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc|pay_def"))
	sig := hex.EncodeToString(mac.Sum(nil))

	resp, err := service.VerifyAndApply(context.Background(), domain.VerifyRequest{
		UserID:    "user_abc",
		OrderID:   "order_abc",
		PaymentID: "pay_def",
		Signature: sig,
		Tier:      tier.Pro,
	})
	if err != nil {
		t.Fatalf("verify and apply: %v", err)
	}
	if resp.Tier != tier.Pro {
		t.Fatalf("expected pro tier, got %s", resp.Tier)
	}
	if subs.setCalls != 1 {
		t.Fatalf("expected one SetTier call, got %d", subs.setCalls)
	}
}

func TestVerifyAndApplyRejectsBadSignature(t *testing.T) {
	subs := &subscriptionStub{tier: tier.Free}
	service := newPaymentService(t, "http://127.0.0.1:0", subs)

	if _, err := service.VerifyAndApply(context.Background(), domain.VerifyRequest{
		UserID:    "user_abc",
		OrderID:   "order_abc",
		PaymentID: "pay_def",
		Signature: "deadbeef",
		Tier:      tier.Pro,
	}); err != domain.ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if subs.setCalls != 0 {
		t.Fatalf("subscription must not change on bad signature, got %d calls", subs.setCalls)
	}
}
