package pricing

import "math"

// Pack models a purchasable gem SKU in the store.
type Pack struct {
	ID          string // SKU id, e.g., "6480"
	Name        string // display name
	Gems        int    // base gems granted
	BonusGems   int    // permanent extra gems (non-first-time)
	FirstTimeX2 bool   // first purchase doubles base Gems (not BonusGems)
	PriceCents  int    // price in minor units
}

// Catalog is a regional product catalog plus tax info. If prices are
// tax-inclusive, set TaxRate to 0 and pass the inclusive price.
type Catalog struct {
	Currency string  // ISO code, e.g., "USD"
	TaxRate  float64 // applied on the subtotal, e.g., 0.13
	Packs    []Pack
}

// FirstTimeState tracks per-pack first-time-double eligibility.
type FirstTimeState map[string]bool // pack id -> x2 still available

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases  []Purchase `json:"purchases"`
	SubCents   int        `json:"sub_cents"`
	TaxCents   int        `json:"tax_cents"`
	TotalCents int        `json:"total_cents"`
	TotalGems  int        `json:"total_gems"`
	Currency   string     `json:"currency"`
}

// Purchase is one line item in a plan.
type Purchase struct {
	PackID    string `json:"pack_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"` // cents
	UnitGems  int    `json:"unit_gems"`  // gems per unit in this plan (x2/bonus applied)
	Subtotal  int    `json:"subtotal"`   // cents
}

// applyTax computes tax and total for a subtotal.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}
