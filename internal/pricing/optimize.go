package pricing

import (
	"math"
	"sort"
)

// variant is a purchasable unit after first-time expansion: each pack
// appears once normally and, when first-time x2 is still available,
// once as an x2 variant. Normal variants repeat freely; an x2 variant
// can be bought at most once per plan.
type variant struct {
	id    string
	name  string
	gems  int
	price int
}

func expandVariants(cat Catalog, first FirstTimeState) (repeat, once []variant) {
	for _, p := range cat.Packs {
		if p.FirstTimeX2 && first != nil && first[p.ID] {
			once = append(once, variant{
				id:    p.ID + "#x2",
				name:  p.Name + " (x2)",
				gems:  p.Gems*2 + p.BonusGems, // x2 applies to base gems only
				price: p.PriceCents,
			})
		}
		repeat = append(repeat, variant{
			id:    p.ID,
			name:  p.Name,
			gems:  p.Gems + p.BonusGems,
			price: p.PriceCents,
		})
	}
	return repeat, once
}

// oncePass records, per table index, whether applying one first-time
// variant improved the value there and from which index it came.
// Layered passes keep each x2 variant to a single purchase.
type oncePass struct {
	took []bool
	from []int
}

// buildPlan turns chosen variant counts into a Plan with stable line
// ordering and tax applied on the subtotal.
func buildPlan(cat Catalog, counts map[variant]int) Plan {
	plan := Plan{Currency: cat.Currency}
	for v, qty := range counts {
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:    v.id,
			Name:      v.name,
			Qty:       qty,
			UnitPrice: v.price,
			UnitGems:  v.gems,
			Subtotal:  sub,
		})
		plan.SubCents += sub
		plan.TotalGems += v.gems * qty
	}
	sort.Slice(plan.Purchases, func(i, j int) bool {
		return plan.Purchases[i].PackID < plan.Purchases[j].PackID
	})
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}

// MinCostForGems finds the minimum-cost pack combination granting at
// least targetGems. Normal packs repeat without limit; first-time x2
// variants enter the plan at most once each. Overshoot is allowed when
// it is cheaper.
func MinCostForGems(cat Catalog, targetGems int, first FirstTimeState) Plan {
	if targetGems <= 0 || len(cat.Packs) == 0 {
		return Plan{Currency: cat.Currency}
	}
	repeat, once := expandVariants(cat, first)

	maxGems := 0
	for _, v := range repeat {
		if v.gems > maxGems {
			maxGems = v.gems
		}
	}
	for _, v := range once {
		if v.gems > maxGems {
			maxGems = v.gems
		}
	}
	if maxGems == 0 {
		return Plan{Currency: cat.Currency}
	}
	limit := targetGems + maxGems

	const inf = int(^uint(0) >> 1)
	dp := make([]int, limit+1)   // min cost to reach exactly g gems
	pick := make([]int, limit+1) // chosen repeat-variant index
	prev := make([]int, limit+1)
	for g := range dp {
		dp[g] = inf
		pick[g] = -1
		prev[g] = -1
	}
	dp[0] = 0

	for g := 0; g <= limit; g++ {
		if dp[g] == inf {
			continue
		}
		for i, v := range repeat {
			ng := g + v.gems
			if ng > limit {
				ng = limit
			}
			if cost := dp[g] + v.price; cost < dp[ng] {
				dp[ng] = cost
				pick[ng] = i
				prev[ng] = g
			}
		}
	}

	// one layered pass per x2 variant over a snapshot of the table, so
	// each applies at most once
	passes := make([]oncePass, len(once))
	for i, v := range once {
		snap := dp
		next := append([]int(nil), snap...)
		took := make([]bool, limit+1)
		from := make([]int, limit+1)
		for g := 0; g <= limit; g++ {
			if snap[g] == inf {
				continue
			}
			ng := g + v.gems
			if ng > limit {
				ng = limit
			}
			if cost := snap[g] + v.price; cost < next[ng] {
				next[ng] = cost
				took[ng] = true
				from[ng] = g
			}
		}
		passes[i] = oncePass{took: took, from: from}
		dp = next
	}

	bestG, bestCost := targetGems, dp[targetGems]
	for g := targetGems; g <= limit; g++ {
		if dp[g] < bestCost {
			bestG, bestCost = g, dp[g]
		}
	}

	counts := map[variant]int{}
	g := bestG
	for i := len(once) - 1; i >= 0; i-- {
		if passes[i].took[g] {
			counts[once[i]]++
			g = passes[i].from[g]
		}
	}
	for ; g > 0 && pick[g] != -1; g = prev[g] {
		counts[repeat[pick[g]]]++
	}
	return buildPlan(cat, counts)
}

// MaxGemsUnderBudget computes the most gems purchasable within
// budgetCents. Normal packs fill unbounded-knapsack style; first-time
// x2 variants apply at most once each. Pre-tax prices are handled by
// shrinking the effective budget by the tax rate.
func MaxGemsUnderBudget(cat Catalog, budgetCents int, first FirstTimeState) Plan {
	if budgetCents <= 0 || len(cat.Packs) == 0 {
		return Plan{Currency: cat.Currency}
	}
	repeat, once := expandVariants(cat, first)

	effBudget := budgetCents
	if cat.TaxRate > 0 {
		effBudget = int(math.Floor(float64(budgetCents) / (1 + cat.TaxRate)))
	}
	if effBudget < 0 {
		effBudget = 0
	}

	dp := make([]int, effBudget+1) // max gems at cost exactly c
	pick := make([]int, effBudget+1)
	for c := range pick {
		pick[c] = -1
	}
	for c := 0; c <= effBudget; c++ {
		for i, v := range repeat {
			if nc := c + v.price; nc <= effBudget {
				if val := dp[c] + v.gems; val > dp[nc] {
					dp[nc] = val
					pick[nc] = i
				}
			}
		}
	}

	// same layered treatment as MinCostForGems: one pass per x2 variant
	passes := make([]oncePass, len(once))
	for i, v := range once {
		snap := dp
		next := append([]int(nil), snap...)
		took := make([]bool, effBudget+1)
		from := make([]int, effBudget+1)
		for c := 0; c <= effBudget; c++ {
			nc := c + v.price
			if nc > effBudget {
				continue
			}
			if val := snap[c] + v.gems; val > next[nc] {
				next[nc] = val
				took[nc] = true
				from[nc] = c
			}
		}
		passes[i] = oncePass{took: took, from: from}
		dp = next
	}

	bestC := 0
	for c := 0; c <= effBudget; c++ {
		if dp[c] > dp[bestC] {
			bestC = c
		}
	}

	counts := map[variant]int{}
	c := bestC
	for i := len(once) - 1; i >= 0; i-- {
		if passes[i].took[c] {
			counts[once[i]]++
			c = passes[i].from[c]
		}
	}
	for c > 0 && pick[c] != -1 {
		v := repeat[pick[c]]
		counts[v]++
		c -= v.price
	}
	return buildPlan(cat, counts)
}
