package gacha

import (
	"errors"
	"math"
	"sort"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Pulls until the first legendary (by luck or by pity).
	GoalFirstLegendary TrialGoal = "first_legendary"
	// Pulls until the first featured item of any rarity.
	GoalFirstFeatured TrialGoal = "first_featured"
	// Given a fixed pull budget, count legendaries awarded.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

var ErrSimConfig = errors.New("invalid simulation config")

// SimParams describes one simulation setup. Trial i runs on a fresh
// seeded RNG derived from Seed+i, so runs are reproducible and trials
// are independent.
type SimParams struct {
	Banner    GachaBanner
	Catalog   Catalog
	StartPity int // carry-over pity entering the banner
	Seed      uint64
}

// SimBudget controls the number of pulls used in GoalFixedBudget.
type SimBudget struct {
	NumPulls int
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// raw samples if the caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// population variance
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// startPity clamps the carry-over pity into the banner's valid range.
func (p SimParams) startPity() int {
	c := p.StartPity
	if c < 0 {
		c = 0
	}
	if c >= p.Banner.PityCounter {
		c = p.Banner.PityCounter - 1
	}
	return c
}

// simulateOne returns the primary metric for one trial.
//   - GoalFirstLegendary: pulls until the first legendary
//   - GoalFirstFeatured:  pulls until the first featured item
//   - GoalFixedBudget:    legendaries within budget.NumPulls
func simulateOne(p SimParams, goal TrialGoal, budget *SimBudget, rng RandomSource) (int, error) {
	pity := p.startPity()
	owned := OwnedSet{}

	featured := make(map[string]struct{}, len(p.Banner.FeaturedItems))
	for _, id := range p.Banner.FeaturedItems {
		featured[id] = struct{}{}
	}

	switch goal {
	case GoalFirstLegendary:
		pulls := 0
		for {
			pulls++
			res, next, err := SimulatePull(p.Banner, p.Catalog, pity, owned, rng)
			if err != nil {
				return 0, err
			}
			if res.Item.Rarity == Legendary {
				return pulls, nil
			}
			pity = next
		}

	case GoalFirstFeatured:
		if len(featured) == 0 {
			return 0, errors.New("goal first_featured needs featured items on the banner")
		}
		// A featured item only ever drops if its rarity can be drawn:
		// legendaries are always reachable through hard pity, every other
		// rarity needs a nonzero base rate. Without at least one reachable
		// featured item the trial loop would never terminate.
		reachable := false
		for id := range featured {
			it, ok := p.Catalog[id]
			if !ok {
				continue
			}
			if it.Rarity == Legendary || p.Banner.Rates[it.Rarity] > 0 {
				reachable = true
				break
			}
		}
		if !reachable {
			return 0, errors.New("goal first_featured: no featured item is reachable under the banner rates")
		}
		pulls := 0
		for {
			pulls++
			res, next, err := SimulatePull(p.Banner, p.Catalog, pity, owned, rng)
			if err != nil {
				return 0, err
			}
			if _, up := featured[res.Item.ID]; up {
				return pulls, nil
			}
			pity = next
		}

	case GoalFixedBudget:
		if budget == nil || budget.NumPulls <= 0 {
			return 0, nil
		}
		count := 0
		for i := 0; i < budget.NumPulls; i++ {
			res, next, err := SimulatePull(p.Banner, p.Catalog, pity, owned, rng)
			if err != nil {
				return 0, err
			}
			if res.Item.Rarity == Legendary {
				count++
			}
			pity = next
		}
		return count, nil
	}

	return 0, ErrSimConfig
}

// RunMonteCarlo repeats trials and returns summary stats. goal picks
// the per-trial metric.
func RunMonteCarlo(p SimParams, goal TrialGoal, trials int, budget *SimBudget) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		rng := NewSeededRNG(p.Seed + uint64(i))
		v, err := simulateOne(p, goal, budget, rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}
