package resume

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/resume/repository"
	"github.com/DevVaradPatil/resume-analyzer/internal/resume/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resume.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
