package tier

import (
	"github.com/spf13/viper"
)

const (
	mib = 1 << 20
)

// defaultTiers mirrors the published pricing page.
func defaultTiers() []Tier {
	return []Tier{
		{
			ID:    Free,
			Name:  "Free",
			Price: 0,
			Quotas: map[Feature]int{
				FeatureAnalyze:   1,
				FeatureAnalytics: 1,
				FeatureImprove:   1,
			},
			MaxFileSize: 2 * mib,
		},
		{
			ID:    Pro,
			Name:  "Pro",
			Price: 5,
			Quotas: map[Feature]int{
				FeatureAnalyze:   50,
				FeatureAnalytics: 50,
				FeatureImprove:   50,
			},
			MaxFileSize: 10 * mib,
		},
		{
			ID:    Executive,
			Name:  "Executive",
			Price: 999,
			Quotas: map[Feature]int{
				FeatureAnalyze:   Unlimited,
				FeatureAnalytics: Unlimited,
				FeatureImprove:   Unlimited,
			},
			MaxFileSize: 25 * mib,
		},
	}
}

// DefaultCatalog returns the built-in tier catalog.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultTiers())
}

// LoadCatalog builds the catalog from an optional YAML override file. The
// file is read exactly once at startup; there is no hot reload, the catalog
// stays immutable for the process lifetime.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var raw struct {
		Tiers []Tier `mapstructure:"tiers"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}
	if len(raw.Tiers) == 0 {
		return DefaultCatalog()
	}
	return NewCatalog(raw.Tiers)
}
