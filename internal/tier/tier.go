// Package tier holds the static subscription tier catalog.
package tier

import (
	"errors"
	"fmt"
	"strings"
)

// Feature identifies a quota-gated operation.
type Feature string

const (
	FeatureAnalyze   Feature = "analyze"   // job-match analysis
	FeatureAnalytics Feature = "analytics" // overall resume analysis
	FeatureImprove   Feature = "improve"   // section rewrite
)

// Features returns the closed set of gated features.
func Features() []Feature {
	return []Feature{FeatureAnalyze, FeatureAnalytics, FeatureImprove}
}

// ParseFeature validates a raw feature identifier.
func ParseFeature(raw string) (Feature, error) {
	switch Feature(strings.TrimSpace(raw)) {
	case FeatureAnalyze:
		return FeatureAnalyze, nil
	case FeatureAnalytics:
		return FeatureAnalytics, nil
	case FeatureImprove:
		return FeatureImprove, nil
	default:
		return "", ErrInvalidFeature
	}
}

// ID identifies a subscription tier.
type ID string

const (
	Free      ID = "free"
	Pro       ID = "pro"
	Executive ID = "executive"
)

// Unlimited is the quota sentinel for tiers without a monthly cap.
const Unlimited = -1

// Tier describes one subscription level.
type Tier struct {
	ID          ID              `mapstructure:"id"`
	Name        string          `mapstructure:"name"`
	Price       int64           `mapstructure:"price"` // INR per month
	Quotas      map[Feature]int `mapstructure:"quotas"`
	MaxFileSize int64           `mapstructure:"max_file_size"` // bytes
}

var (
	ErrInvalidTier    = errors.New("invalid_tier")
	ErrInvalidFeature = errors.New("invalid_feature")
)

// Catalog is the immutable registry of tiers. It is built once at startup
// and passed by reference; it is never mutated afterwards.
type Catalog struct {
	tiers map[ID]Tier
	order []ID
}

// NewCatalog validates and freezes a set of tiers. Every feature must have a
// quota entry in every tier.
func NewCatalog(tiers []Tier) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, errors.New("empty tier catalog")
	}

	byID := make(map[ID]Tier, len(tiers))
	order := make([]ID, 0, len(tiers))
	for _, t := range tiers {
		if strings.TrimSpace(string(t.ID)) == "" {
			return nil, errors.New("tier with empty id")
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tier %q", t.ID)
		}
		if t.MaxFileSize <= 0 {
			return nil, fmt.Errorf("tier %q: max file size must be positive", t.ID)
		}
		for _, feature := range Features() {
			if _, ok := t.Quotas[feature]; !ok {
				return nil, fmt.Errorf("tier %q: missing quota for feature %q", t.ID, feature)
			}
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	return &Catalog{tiers: byID, order: order}, nil
}

// LimitsFor returns the tier definition, or ErrInvalidTier for unknown
// identifiers (e.g. a corrupted subscription record).
func (c *Catalog) LimitsFor(id ID) (Tier, error) {
	t, ok := c.tiers[id]
	if !ok {
		return Tier{}, ErrInvalidTier
	}
	return t, nil
}

// Has reports whether the catalog knows the tier.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.tiers[id]
	return ok
}

// Tiers returns the catalog entries in declaration order.
func (c *Catalog) Tiers() []Tier {
	out := make([]Tier, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tiers[id])
	}
	return out
}
