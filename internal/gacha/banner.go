package gacha

import (
	"fmt"
	"strings"
	"time"
)

// Banner defaults applied by NewBanner.
const (
	DefaultPityCounter      = 90
	DefaultPullCostGems     = 300
	DefaultRateUpMultiplier = 2.0
)

// DefaultRates is the stock rate table for banners that do not declare
// their own.
var DefaultRates = RateTable{
	Common:    0.70,
	Uncommon:  0.20,
	Rare:      0.07,
	Epic:      0.02,
	Legendary: 0.01,
}

// PullCost is descriptive metadata for the caller's currency step; the
// engine never deducts anything itself.
type PullCost struct {
	Gems    int
	Tickets int
}

// GachaBanner is an immutable, time-boxed pull event. ItemPool order
// is the stable candidate order for item selection.
type GachaBanner struct {
	ID               string
	Name             string
	GameID           string
	ItemPool         []string
	FeaturedItems    []string
	StartDate        time.Time
	Duration         time.Duration
	EndDate          time.Time
	PityCounter      int
	PullCost         PullCost
	RateUpMultiplier float64
	Rates            RateTable
	SoftRamp         SoftRamp
}

// BannerParams carries construction inputs for NewBanner. Zero/nil
// fields fall back to the banner defaults.
type BannerParams struct {
	ID               string
	Name             string
	GameID           string
	ItemPool         []string
	FeaturedItems    []string
	StartDate        time.Time
	Duration         time.Duration
	PityCounter      int
	PullCost         *PullCost
	RateUpMultiplier float64
	Rates            RateTable
	SoftRamp         *SoftRamp
}

// NewBanner applies defaults, derives EndDate, and validates the
// configuration. Pool-vs-catalog checks need the item catalog and run
// separately via ValidatePool.
func NewBanner(p BannerParams) (GachaBanner, error) {
	b := GachaBanner{
		ID:               p.ID,
		Name:             p.Name,
		GameID:           p.GameID,
		ItemPool:         p.ItemPool,
		FeaturedItems:    p.FeaturedItems,
		StartDate:        p.StartDate,
		Duration:         p.Duration,
		EndDate:          p.StartDate.Add(p.Duration),
		PityCounter:      p.PityCounter,
		PullCost:         PullCost{Gems: DefaultPullCostGems},
		RateUpMultiplier: p.RateUpMultiplier,
		Rates:            p.Rates,
		SoftRamp:         SoftRamp{Target: DefaultSoftTarget, Easing: EaseLinear},
	}
	if b.PityCounter == 0 {
		b.PityCounter = DefaultPityCounter
	}
	if p.PullCost != nil {
		b.PullCost = *p.PullCost
	}
	if b.RateUpMultiplier == 0 {
		b.RateUpMultiplier = DefaultRateUpMultiplier
	}
	if b.Rates == nil {
		b.Rates = DefaultRates
	}
	if p.SoftRamp != nil {
		b.SoftRamp = *p.SoftRamp
		if b.SoftRamp.Target == 0 {
			b.SoftRamp.Target = DefaultSoftTarget
		}
		if b.SoftRamp.Easing == "" {
			b.SoftRamp.Easing = EaseLinear
		}
	}
	if err := b.Validate(); err != nil {
		return GachaBanner{}, err
	}
	return b, nil
}

// Active reports whether t falls inside [StartDate, EndDate).
func (b GachaBanner) Active(t time.Time) bool {
	return !t.Before(b.StartDate) && t.Before(b.EndDate)
}

// Validate checks the catalog-independent configuration. All findings
// are collected and reported together.
func (b GachaBanner) Validate() error {
	var errs []string
	if b.PityCounter < 1 {
		errs = append(errs, "pity counter must be >= 1")
	}
	if b.RateUpMultiplier < 1 {
		errs = append(errs, "rate-up multiplier must be >= 1")
	}
	if len(b.ItemPool) == 0 {
		errs = append(errs, "item pool is empty")
	}
	pool := make(map[string]struct{}, len(b.ItemPool))
	for _, id := range b.ItemPool {
		pool[id] = struct{}{}
	}
	for _, id := range b.FeaturedItems {
		if _, ok := pool[id]; !ok {
			errs = append(errs, fmt.Sprintf("featured item %s not in pool", id))
		}
	}
	if err := b.Rates.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if b.SoftRamp.Target <= 0 || b.SoftRamp.Target >= 1 {
		errs = append(errs, "soft ramp target must be in (0,1)")
	}
	if b.PullCost.Gems < 0 || b.PullCost.Tickets < 0 {
		errs = append(errs, "pull cost must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: banner %s: %s", ErrBannerConfig, b.ID, strings.Join(errs, "; "))
	}
	return nil
}

// ValidatePool checks the pool against the catalog: every pool id must
// resolve, every rarity with a non-zero rate needs at least one
// candidate, and hard pity needs a legendary to land on.
func (b GachaBanner) ValidatePool(catalog Catalog) error {
	var errs []string
	byRarity := make(map[Rarity]int)
	for _, id := range b.ItemPool {
		it, ok := catalog[id]
		if !ok {
			errs = append(errs, fmt.Sprintf("pool item %s not in catalog", id))
			continue
		}
		byRarity[it.Rarity]++
	}
	if byRarity[Legendary] == 0 {
		errs = append(errs, "no legendary items in pool; hard pity cannot resolve")
	}
	for _, r := range Rarities {
		if r == Legendary {
			continue
		}
		if b.Rates[r] > 0 && byRarity[r] == 0 {
			errs = append(errs, fmt.Sprintf("rarity %s has rate %.4f but no items in pool", r, b.Rates[r]))
		}
	}
	for _, id := range b.FeaturedItems {
		it, ok := catalog[id]
		if !ok {
			continue // already reported above when it is in the pool
		}
		if it.Rarity != Legendary && b.Rates[it.Rarity] == 0 {
			errs = append(errs, fmt.Sprintf("featured item %s is unreachable: rarity %s has zero rate", id, it.Rarity))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: banner %s: %s", ErrBannerConfig, b.ID, strings.Join(errs, "; "))
	}
	return nil
}
