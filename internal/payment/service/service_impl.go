package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/razorpay"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In
	Log     *zap.Logger
	Cfg     config.Config
	Client  *razorpay.Client
	Catalog *tier.Catalog
	SubSvc  subscriptiondomain.Service
}

type service struct {
	log       *zap.Logger
	keySecret string
	client    *razorpay.Client
	catalog   *tier.Catalog
	subSvc    subscriptiondomain.Service
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:       p.Log.Named("payment.service"),
		keySecret: p.Cfg.Razorpay.KeySecret,
		client:    p.Client,
		catalog:   p.Catalog,
		subSvc:    p.SubSvc,
	}
}

func (s *service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, subscriptiondomain.ErrInvalidUserID
	}
	limits, err := s.catalog.LimitsFor(req.Tier)
	if err != nil {
		return nil, err
	}
	if limits.Price == 0 {
		return nil, domain.ErrFreeTierOrder
	}

	order, err := s.client.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   limits.Price * 100,
		Currency: "INR",
		Receipt:  fmt.Sprintf("sub_%s_%s", req.Tier, uuid.NewString()),
		Notes: map[string]string{
			"user_id": req.UserID,
			"tier":    string(req.Tier),
		},
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("user_id", req.UserID),
		zap.String("tier", string(req.Tier)),
		zap.String("order_id", order.ID),
	)
	return &domain.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.client.KeyID(),
		Tier:     req.Tier,
	}, nil
}

func (s *service) VerifyAndApply(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, subscriptiondomain.ErrInvalidUserID
	}
	if !s.catalog.Has(req.Tier) {
		return nil, tier.ErrInvalidTier
	}
	if !razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		s.log.Warn("payment signature rejected",
			zap.String("user_id", req.UserID),
			zap.String("order_id", req.OrderID),
		)
		return nil, domain.ErrInvalidSignature
	}

	sub, err := s.subSvc.SetTier(ctx, req.UserID, req.Tier)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment verified",
		zap.String("user_id", req.UserID),
		zap.String("order_id", req.OrderID),
		zap.String("tier", string(sub.Tier)),
	)
	return &domain.VerifyResponse{Tier: sub.Tier, Status: string(sub.Status)}, nil
}
