package analysis

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/analysis/gemini"
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideEngine(cfg config.Config, log *zap.Logger) (domain.Engine, error) {
	client, err := gemini.NewClient(cfg.Gemini, log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var Module = fx.Module("analysis.engine",
	fx.Provide(provideEngine),
)
