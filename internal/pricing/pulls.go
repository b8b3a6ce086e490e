package pricing

import "github.com/studioforge/gacha-engine/internal/gacha"

// PullPricing describes gem pricing for pulls, with an optional
// discounted ten-pull bundle.
type PullPricing struct {
	PerPull    int
	PerTenPull int // 0 -> plain 10 * PerPull
}

// FromPullCost derives pricing from a banner's pull cost. A
// perTenPull of 0 means no bundle discount.
func FromPullCost(c gacha.PullCost, perTenPull int) PullPricing {
	return PullPricing{PerPull: c.Gems, PerTenPull: perTenPull}
}

// GemsForPulls returns the gem cost of n pulls, buying ten-pull
// bundles first when a discounted bundle price is configured.
func (p PullPricing) GemsForPulls(n int) int {
	if n <= 0 {
		return 0
	}
	if p.PerTenPull > 0 && n >= 10 {
		tens := n / 10
		rem := n % 10
		return tens*p.PerTenPull + rem*p.PerPull
	}
	return n * p.PerPull
}

// PullsForGems returns how many pulls a gem balance covers, spending
// bundles first when they are cheaper per pull.
func (p PullPricing) PullsForGems(gems int) int {
	if gems <= 0 || p.PerPull <= 0 {
		return 0
	}
	pulls := 0
	if p.PerTenPull > 0 && p.PerTenPull < 10*p.PerPull {
		bundles := gems / p.PerTenPull
		pulls += bundles * 10
		gems -= bundles * p.PerTenPull
	}
	return pulls + gems/p.PerPull
}
