package gacha

import "fmt"

// Rarity tiers ordered from most to least common. The declared order
// in Rarities is the stable order for cumulative rate resolution and
// for the cost-multiplier ladder.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

var Rarities = [...]Rarity{Common, Uncommon, Rare, Epic, Legendary}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

// ParseRarity maps a config string to its tier.
func ParseRarity(name string) (Rarity, error) {
	for _, r := range Rarities {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, name)
}

// CostMultiplier returns the production-cost scale of a tier relative
// to Common. Powers of two, so a Legendary item costs 16x a Common one.
func (r Rarity) CostMultiplier() int {
	if r < Common || r > Legendary {
		return 1
	}
	return 1 << int(r)
}
