package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/studioforge/gacha-engine/internal/gacha"
	"github.com/studioforge/gacha-engine/internal/pricing"
)

// Banners without an explicit duration run a standard two-week window.
const defaultDurationDays = 14

// build converts a merged raw config into validated gacha values. All
// findings across items and banners are collected and reported
// together.
func build(game string, raw RawConfig) (GameConfig, error) {
	var errs []string

	items := make(gacha.Catalog, len(raw.Items))
	for _, ri := range raw.Items {
		if ri.ID == "" {
			errs = append(errs, "item with empty id")
			continue
		}
		if _, dup := items[ri.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate item id %s", ri.ID))
			continue
		}
		rarity, err := gacha.ParseRarity(ri.Rarity)
		if err != nil {
			errs = append(errs, fmt.Sprintf("item %s: %v", ri.ID, err))
			continue
		}
		items[ri.ID] = gacha.NewItem(gacha.ItemParams{
			ID:          ri.ID,
			Name:        ri.Name,
			Rarity:      rarity,
			Kind:        gacha.ItemKind(ri.Kind),
			Description: ri.Description,
			ArtCost:     ri.ArtCost,
			DesignCost:  ri.DesignCost,
		})
	}

	banners := make(map[string]gacha.GachaBanner, len(raw.Banners))
	for _, rb := range raw.Banners {
		if rb.ID == "" {
			errs = append(errs, "banner with empty id")
			continue
		}
		if _, dup := banners[rb.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate banner id %s", rb.ID))
			continue
		}
		b, err := buildBanner(game, raw.Defaults, rb)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := b.ValidatePool(items); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		banners[rb.ID] = b
	}

	shop, perTen, shopErrs := buildShop(raw.Shop)
	errs = append(errs, shopErrs...)

	if len(errs) > 0 {
		return GameConfig{}, fmt.Errorf("config for game %s: %s", game, strings.Join(errs, "; "))
	}
	return GameConfig{
		GameID:     game,
		Version:    raw.Version,
		Items:      items,
		Banners:    banners,
		Shop:       shop,
		PerTenPull: perTen,
	}, nil
}

// buildShop converts the raw shop section into a pricing catalog. A
// nil section yields an empty catalog.
func buildShop(raw *RawShop) (pricing.Catalog, int, []string) {
	if raw == nil {
		return pricing.Catalog{}, 0, nil
	}
	var errs []string
	shop := pricing.Catalog{Currency: raw.Currency, TaxRate: raw.TaxRate}
	if shop.TaxRate < 0 {
		errs = append(errs, "shop tax rate is negative")
	}
	seen := make(map[string]struct{}, len(raw.Packs))
	for _, rp := range raw.Packs {
		if rp.ID == "" {
			errs = append(errs, "shop pack with empty id")
			continue
		}
		if _, dup := seen[rp.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate shop pack id %s", rp.ID))
			continue
		}
		seen[rp.ID] = struct{}{}
		if rp.Gems <= 0 || rp.PriceCents <= 0 {
			errs = append(errs, fmt.Sprintf("shop pack %s needs positive gems and price", rp.ID))
			continue
		}
		shop.Packs = append(shop.Packs, pricing.Pack{
			ID:          rp.ID,
			Name:        rp.Name,
			Gems:        rp.Gems,
			BonusGems:   rp.BonusGems,
			FirstTimeX2: rp.FirstTimeX2,
			PriceCents:  rp.PriceCents,
		})
	}
	perTen := 0
	if raw.PerTenPull != nil {
		perTen = *raw.PerTenPull
		if perTen < 0 {
			errs = append(errs, "shop per_ten_pull is negative")
		}
	}
	return shop, perTen, errs
}

// buildBanner resolves one raw banner against the merged defaults and
// runs it through the factory.
func buildBanner(game string, def RawDefaults, rb RawBanner) (gacha.GachaBanner, error) {
	p := gacha.BannerParams{
		ID:            rb.ID,
		Name:          rb.Name,
		GameID:        rb.GameID,
		ItemPool:      rb.ItemPool,
		FeaturedItems: rb.Featured,
		StartDate:     rb.Start,
	}
	if p.GameID == "" {
		p.GameID = game
	}

	days := defaultDurationDays
	if rb.DurationDays != nil {
		days = *rb.DurationDays
	}
	p.Duration = time.Duration(days) * 24 * time.Hour

	if rb.Pity != nil {
		p.PityCounter = *rb.Pity
	} else if def.Pity != nil {
		p.PityCounter = *def.Pity
	}

	if rb.RateUp != nil {
		p.RateUpMultiplier = *rb.RateUp
	} else if def.RateUp != nil {
		p.RateUpMultiplier = *def.RateUp
	}

	if pc := pickPullCost(rb.PullCost, def.PullCost); pc != nil {
		p.PullCost = pc
	}

	rawRates := rb.Rates
	if len(rawRates) == 0 {
		rawRates = def.Rates
	}
	if len(rawRates) > 0 {
		rates, err := parseRates(rawRates)
		if err != nil {
			return gacha.GachaBanner{}, fmt.Errorf("banner %s: %w", rb.ID, err)
		}
		p.Rates = rates
	}

	soft := rb.Soft
	if soft == nil {
		soft = def.Soft
	}
	if soft != nil {
		ramp := gacha.SoftRamp{Easing: gacha.Easing(soft.Easing)}
		if soft.Target != nil {
			ramp.Target = *soft.Target
		}
		p.SoftRamp = &ramp
	}

	return gacha.NewBanner(p)
}

func pickPullCost(banner, def *RawPullCost) *gacha.PullCost {
	raw := banner
	if raw == nil {
		raw = def
	}
	if raw == nil {
		return nil
	}
	pc := gacha.PullCost{Gems: gacha.DefaultPullCostGems}
	if raw.Gems != nil {
		pc.Gems = *raw.Gems
	}
	if raw.Tickets != nil {
		pc.Tickets = *raw.Tickets
	}
	return &pc
}

func parseRates(raw map[string]float64) (gacha.RateTable, error) {
	rates := make(gacha.RateTable, len(raw))
	for name, p := range raw {
		r, err := gacha.ParseRarity(name)
		if err != nil {
			return nil, err
		}
		rates[r] = p
	}
	return rates, nil
}
