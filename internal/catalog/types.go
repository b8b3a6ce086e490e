package catalog

import "time"

// Raw config decoded from YAML. Pointer fields distinguish "absent"
// from zero so the default -> game merge can tell them apart.
type RawConfig struct {
	Version  string      `yaml:"version"`
	Defaults RawDefaults `yaml:"defaults"`
	Items    []RawItem   `yaml:"items,omitempty"`
	Banners  []RawBanner `yaml:"banners,omitempty"`
	Shop     *RawShop    `yaml:"shop,omitempty"`
	Notes    string      `yaml:"notes,omitempty"`
}

// RawShop describes the gem-pack storefront used for purchase
// planning. A game without a shop section simply has no packs.
type RawShop struct {
	Currency   string    `yaml:"currency,omitempty"`
	TaxRate    float64   `yaml:"tax_rate,omitempty"`
	PerTenPull *int      `yaml:"per_ten_pull,omitempty"`
	Packs      []RawPack `yaml:"packs,omitempty"`
}

type RawPack struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Gems        int    `yaml:"gems"`
	BonusGems   int    `yaml:"bonus_gems,omitempty"`
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty"`
	PriceCents  int    `yaml:"price_cents"`
}

// RawDefaults holds banner-level fallbacks shared by every banner in
// the merged config.
type RawDefaults struct {
	Pity     *int               `yaml:"pity,omitempty"`
	RateUp   *float64           `yaml:"rate_up,omitempty"`
	PullCost *RawPullCost       `yaml:"pull_cost,omitempty"`
	Rates    map[string]float64 `yaml:"rates,omitempty"`
	Soft     *RawSoft           `yaml:"soft,omitempty"`
}

type RawPullCost struct {
	Gems    *int `yaml:"gems,omitempty"`
	Tickets *int `yaml:"tickets,omitempty"`
}

type RawSoft struct {
	Target *float64 `yaml:"target,omitempty"`
	Easing string   `yaml:"easing,omitempty"`
}

type RawItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Rarity      string `yaml:"rarity"`
	Kind        string `yaml:"kind,omitempty"`
	Description string `yaml:"description,omitempty"`
	ArtCost     *int   `yaml:"art_cost,omitempty"`
	DesignCost  *int   `yaml:"design_cost,omitempty"`
}

type RawBanner struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	GameID       string             `yaml:"game_id,omitempty"`
	ItemPool     []string           `yaml:"item_pool"`
	Featured     []string           `yaml:"featured,omitempty"`
	Start        time.Time          `yaml:"start"`
	DurationDays *int               `yaml:"duration_days,omitempty"`
	Pity         *int               `yaml:"pity,omitempty"`
	RateUp       *float64           `yaml:"rate_up,omitempty"`
	PullCost     *RawPullCost       `yaml:"pull_cost,omitempty"`
	Rates        map[string]float64 `yaml:"rates,omitempty"`
	Soft         *RawSoft           `yaml:"soft,omitempty"`
}
