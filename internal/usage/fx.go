package usage

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/usage/repository"
	"github.com/DevVaradPatil/resume-analyzer/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
