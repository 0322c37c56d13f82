package server

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/period"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

type tierPayload struct {
	ID          tier.ID              `json:"id"`
	Name        string               `json:"name"`
	Price       int64                `json:"price"`
	Quotas      map[tier.Feature]int `json:"quotas"`
	MaxFileSize int64                `json:"max_file_size"`
}

func tierToPayload(t tier.Tier) tierPayload {
	return tierPayload{
		ID:          t.ID,
		Name:        t.Name,
		Price:       t.Price,
		Quotas:      t.Quotas,
		MaxFileSize: t.MaxFileSize,
	}
}

// ListTiers is public: the pricing page renders from it before login.
func (s *Server) ListTiers(c *gin.Context) {
	tiers := s.catalog.Tiers()
	out := make([]tierPayload, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, tierToPayload(t))
	}
	respondOK(c, gin.H{"tiers": out})
}

type checkAccessBody struct {
	Feature string `json:"feature"`
}

// CheckAccess answers whether the caller may use a feature right now.
// The verdict is the payload either way; clients branch on allowed.
func (s *Server) CheckAccess(c *gin.Context) {
	var body checkAccessBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	feature, err := tier.ParseFeature(body.Feature)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	check, err := s.entitlementSvc.CheckFeature(c.Request.Context(), currentUserID(c), feature)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !check.Allowed && s.obsMetrics != nil {
		s.obsMetrics.RecordEntitlementDenied(c.Request.Context(), string(feature), check.Reason)
	}
	respondOK(c, check)
}

type subscriptionPayload struct {
	Subscription *subscriptiondomain.Subscription `json:"subscription"`
	Limits       tierPayload                      `json:"limits"`
	Usage        map[tier.Feature]int64           `json:"usage"`
	Remaining    map[tier.Feature]int64           `json:"remaining"`
	PeriodKey    string                           `json:"period_key"`
	ResetDate    time.Time                        `json:"reset_date"`
}

func (s *Server) subscriptionPayload(c *gin.Context, userID string) (*subscriptionPayload, error) {
	ctx := c.Request.Context()

	sub, err := s.subscriptionSvc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits, err := s.catalog.LimitsFor(sub.Tier)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := period.Key(now)
	summary, err := s.usageSvc.Summary(ctx, userID, key)
	if err != nil {
		return nil, err
	}

	remaining := make(map[tier.Feature]int64, len(limits.Quotas))
	for feature, quota := range limits.Quotas {
		if quota == tier.Unlimited {
			remaining[feature] = tier.Unlimited
			continue
		}
		left := int64(quota) - summary[feature]
		if left < 0 {
			left = 0
		}
		remaining[feature] = left
	}

	return &subscriptionPayload{
		Subscription: sub,
		Limits:       tierToPayload(limits),
		Usage:        summary,
		Remaining:    remaining,
		PeriodKey:    key,
		ResetDate:    period.NextStart(now),
	}, nil
}

// GetSubscription returns the caller's subscription with the tier
// limits and the usage already burned this period.
func (s *Server) GetSubscription(c *gin.Context) {
	payload, err := s.subscriptionPayload(c, currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, payload)
}

// Init is the session bootstrap call the client makes after login.
func (s *Server) Init(c *gin.Context) {
	userID := currentUserID(c)
	ctx := c.Request.Context()

	existing, err := s.subscriptionSvc.Get(ctx, userID)
	if err != nil && !errors.Is(err, subscriptiondomain.ErrNotFound) {
		AbortWithError(c, err)
		return
	}
	needsOnboarding := existing == nil

	payload, err := s.subscriptionPayload(c, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tiers := s.catalog.Tiers()
	tierList := make([]tierPayload, 0, len(tiers))
	for _, t := range tiers {
		tierList = append(tierList, tierToPayload(t))
	}

	respondOK(c, gin.H{
		"user_id":          userID,
		"needs_onboarding": needsOnboarding,
		"subscription":     payload,
		"tiers":            tierList,
	})
}

type createOrderBody struct {
	Tier string `json:"tier"`
}

func (s *Server) CreatePaymentOrder(c *gin.Context) {
	var body createOrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.paymentSvc.CreateOrder(c.Request.Context(), paymentdomain.CreateOrderRequest{
		UserID: currentUserID(c),
		Tier:   tier.ID(body.Tier),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordPaymentEvent(c, "order_created", string(order.Tier))
	respondOK(c, order)
}

type verifyPaymentBody struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Tier      string `json:"tier"`
}

func (s *Server) VerifyPayment(c *gin.Context) {
	var body verifyPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.paymentSvc.VerifyAndApply(c.Request.Context(), paymentdomain.VerifyRequest{
		UserID:    currentUserID(c),
		OrderID:   body.OrderID,
		PaymentID: body.PaymentID,
		Signature: body.Signature,
		Tier:      tier.ID(body.Tier),
	})
	if err != nil {
		s.recordPaymentEvent(c, "verify_failed", body.Tier)
		AbortWithError(c, err)
		return
	}

	s.recordPaymentEvent(c, "tier_upgraded", string(result.Tier))
	respondOK(c, result)
}

func (s *Server) recordPaymentEvent(c *gin.Context, eventType, tierID string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordPaymentEvent(c.Request.Context(), eventType, tierID)
}
