package entitlement

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/entitlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement.service",
	fx.Provide(service.NewService),
)
