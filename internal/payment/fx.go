package payment

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/razorpay"
	"github.com/DevVaradPatil/resume-analyzer/internal/payment/service"
	"go.uber.org/fx"
)

func provideClient(cfg config.Config) *razorpay.Client {
	return razorpay.NewClient(cfg.Razorpay.Endpoint, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
}

var Module = fx.Module("payment.service",
	fx.Provide(provideClient),
	fx.Provide(service.NewService),
)
