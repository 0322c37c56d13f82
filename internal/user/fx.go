package user

import (
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/repository"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/service"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/webhook"
	"go.uber.org/fx"
)

// provideVerifier returns nil when no webhook secret is configured; the
// webhook endpoint rejects deliveries in that case.
func provideVerifier(cfg config.Config) (*webhook.Verifier, error) {
	if strings.TrimSpace(cfg.IdentityWebhookSecret) == "" {
		return nil, nil
	}
	return webhook.NewVerifier(cfg.IdentityWebhookSecret)
}

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(provideVerifier),
)
