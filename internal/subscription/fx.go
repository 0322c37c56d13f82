package subscription

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/repository"
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
