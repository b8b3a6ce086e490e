package gacha

import (
	"fmt"
	"math"
	"strings"
)

// RateTable maps each rarity to its pull probability. A valid table
// sums to 1.0 within RateSumTolerance; missing tiers count as zero.
type RateTable map[Rarity]float64

// RateSumTolerance is the allowed deviation of a rate table's sum
// from 1.0. Enforced at banner construction, never per pull.
const RateSumTolerance = 0.001

// Validate checks the table sums to 1.0 within tolerance and holds no
// negative or non-finite entries. The engine never renormalizes a bad
// table silently.
func (rt RateTable) Validate() error {
	var errs []string
	sum := 0.0
	for _, r := range Rarities {
		p := rt[r]
		if math.IsNaN(p) || math.IsInf(p, 0) {
			errs = append(errs, fmt.Sprintf("rate for %s is not finite", r))
			continue
		}
		if p < 0 {
			errs = append(errs, fmt.Sprintf("rate for %s is negative", r))
		}
		sum += p
	}
	if d := sum - 1.0; d > RateSumTolerance || d < -RateSumTolerance {
		errs = append(errs, fmt.Sprintf("rates sum to %.4f, want 1.0", sum))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRates, strings.Join(errs, "; "))
	}
	return nil
}

// Easing specifies how the legendary rate ramps inside the soft-pity
// window.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

// apply maps ramp progress t in [0,1] through the easing curve. All
// three curves are monotonically non-decreasing on [0,1].
func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		// accelerate then decelerate
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
	default:
		return t
	}
}

// SoftRamp tunes the soft-pity window. Target is the legendary rate
// reached at pity == pityCounter-2; Easing shapes the climb.
type SoftRamp struct {
	Target float64
	Easing Easing
}

// DefaultSoftTarget is the conventional legendary rate at the top of
// the soft-pity window, just before hard pity.
const DefaultSoftTarget = 0.5

// keep soft-pity rates below 1 so only the hard boundary guarantees
const maxSoftRate = 0.999999999999

// SoftPityStart returns the pity count where the ramp begins.
func SoftPityStart(pityCounter int) int {
	return int(float64(pityCounter) * 0.75)
}

// EffectiveRates computes the rarity distribution for one pull at the
// given pity.
//   - pity == pityCounter-1: hard pity; legendary gets probability 1
//     with no RNG involved.
//   - SoftPityStart(pityCounter) <= pity < pityCounter-1: the
//     legendary rate ramps from its base value at the window start to
//     ramp.Target at pityCounter-2; the other tiers give up mass
//     proportionally so the table still sums to 1.
//   - below the window: the base table is returned unchanged.
func EffectiveRates(rates RateTable, pity, pityCounter int, ramp SoftRamp) RateTable {
	if pity >= pityCounter-1 {
		return RateTable{Legendary: 1}
	}
	start := SoftPityStart(pityCounter)
	if pity < start {
		return rates
	}

	base := rates[Legendary]
	target := ramp.Target
	if target <= 0 {
		target = DefaultSoftTarget
	}
	if target < base {
		// ramp never drops below the base rate
		target = base
	}

	// progress t in [0,1]; the ramp tops out at pityCounter-2
	end := pityCounter - 2
	t := 1.0
	if length := float64(end - start); length > 0 {
		t = float64(pity-start) / length
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	t = ramp.Easing.apply(t)

	pLeg := base + (target-base)*t
	if pLeg > maxSoftRate {
		pLeg = maxSoftRate
	}

	out := make(RateTable, len(Rarities))
	rest := 1 - base
	if rest <= 0 {
		out[Legendary] = 1
		return out
	}
	scale := (1 - pLeg) / rest
	for _, r := range Rarities {
		if r == Legendary {
			continue
		}
		out[r] = rates[r] * scale
	}
	out[Legendary] = pLeg
	return out
}

// DrawRarity samples one rarity from the table with a single uniform
// draw. Iteration follows the declared rarity order, so ties and
// floating slack resolve stably; any residue lands on the last tier.
func DrawRarity(rates RateTable, rng RandomSource) Rarity {
	u := rng.Float64()
	acc := 0.0
	for _, r := range Rarities {
		acc += rates[r]
		if u < acc {
			return r
		}
	}
	return Rarities[len(Rarities)-1]
}
