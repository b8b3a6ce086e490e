package gacha

import "fmt"

// PullResult reports one resolved pull.
type PullResult struct {
	Item        GachaItem
	IsDuplicate bool // item id already in the player's owned set
	PityUsed    bool // hard pity forced the legendary
}

// SimulatePull resolves one pull and returns the result plus the next
// pity value. Pure: the owned set is only read, pity state stays with
// the caller, and all randomness comes from rng.
//
// Draw order is fixed for replay stability: one uniform draw decides
// the rarity (skipped entirely when hard pity fires, since the rarity
// is not in question), then one uniform draw picks the item.
func SimulatePull(b GachaBanner, catalog Catalog, pity int, owned OwnedSet, rng RandomSource) (PullResult, int, error) {
	if rng == nil {
		rng = DefaultRNG()
	}
	if len(b.ItemPool) == 0 {
		return PullResult{}, pity, fmt.Errorf("%w: banner %s", ErrEmptyPool, b.ID)
	}

	// pity == PityCounter-1 is the Nth pull, 1-indexed: guaranteed
	hard := pity >= b.PityCounter-1
	rarity := Legendary
	if !hard {
		eff := EffectiveRates(b.Rates, pity, b.PityCounter, b.SoftRamp)
		rarity = DrawRarity(eff, rng)
	}

	item, err := drawItem(b, catalog, rarity, rng)
	if err != nil {
		return PullResult{}, pity, err
	}

	newPity := pity + 1
	if rarity == Legendary {
		newPity = 0
	}
	res := PullResult{
		Item:        item,
		IsDuplicate: owned.Has(item.ID),
		PityUsed:    hard,
	}
	return res, newPity, nil
}

// drawItem picks one pool item of the drawn rarity with a single
// weighted draw. Candidates keep pool declaration order; featured
// candidates weigh RateUpMultiplier against 1 for the rest.
func drawItem(b GachaBanner, catalog Catalog, rarity Rarity, rng RandomSource) (GachaItem, error) {
	featured := make(map[string]struct{}, len(b.FeaturedItems))
	for _, id := range b.FeaturedItems {
		featured[id] = struct{}{}
	}

	var items []GachaItem
	var weights []float64
	total := 0.0
	for _, id := range b.ItemPool {
		it, ok := catalog[id]
		if !ok {
			return GachaItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		if it.Rarity != rarity {
			continue
		}
		w := 1.0
		if _, up := featured[id]; up {
			w = b.RateUpMultiplier
		}
		items = append(items, it)
		weights = append(weights, w)
		total += w
	}
	if len(items) == 0 {
		return GachaItem{}, fmt.Errorf("%w: no %s items on banner %s", ErrNoCandidates, rarity, b.ID)
	}

	u := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return items[i], nil
		}
	}
	// floating slack lands on the last candidate
	return items[len(items)-1], nil
}
