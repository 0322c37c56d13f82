package tier

import (
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"go.uber.org/fx"
)

func provideCatalog(cfg config.Config) (*Catalog, error) {
	return LoadCatalog(cfg.TierConfigPath)
}

// Module wires the immutable tier catalog.
var Module = fx.Module("tier.catalog",
	fx.Provide(provideCatalog),
)
