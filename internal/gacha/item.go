package gacha

// ItemKind classifies what a pool entry is in the game.
type ItemKind string

const (
	KindCharacter ItemKind = "character"
	KindWeapon    ItemKind = "weapon"
	KindArtifact  ItemKind = "artifact"
)

// Base production costs of a Common item; higher tiers scale by the
// rarity cost multiplier.
const (
	baseArtCost    = 100
	baseDesignCost = 50
)

// GachaItem is an immutable catalog record. A changed item is a new
// item with a new id.
type GachaItem struct {
	ID          string
	Name        string
	Rarity      Rarity
	Kind        ItemKind
	Description string
	ArtCost     int
	DesignCost  int
}

// ItemParams carries construction inputs for NewItem. Nil cost fields
// mean "derive from rarity"; non-nil values bypass the ladder.
type ItemParams struct {
	ID          string
	Name        string
	Rarity      Rarity
	Kind        ItemKind
	Description string
	ArtCost     *int
	DesignCost  *int
}

// NewItem builds an item, deriving production costs from the rarity
// cost multiplier unless explicit overrides are given.
func NewItem(p ItemParams) GachaItem {
	it := GachaItem{
		ID:          p.ID,
		Name:        p.Name,
		Rarity:      p.Rarity,
		Kind:        p.Kind,
		Description: p.Description,
		ArtCost:     baseArtCost * p.Rarity.CostMultiplier(),
		DesignCost:  baseDesignCost * p.Rarity.CostMultiplier(),
	}
	if p.Kind == "" {
		it.Kind = KindCharacter
	}
	if p.ArtCost != nil {
		it.ArtCost = *p.ArtCost
	}
	if p.DesignCost != nil {
		it.DesignCost = *p.DesignCost
	}
	return it
}

// Catalog looks up items by id. Callers scope it to a banner's pool.
type Catalog map[string]GachaItem

// NewCatalog indexes items by id.
func NewCatalog(items ...GachaItem) Catalog {
	c := make(Catalog, len(items))
	for _, it := range items {
		c[it.ID] = it
	}
	return c
}

// OwnedSet is the caller-owned collection of item ids a player already
// has. The engine only reads it for duplicate classification.
type OwnedSet map[string]struct{}

func NewOwnedSet(ids ...string) OwnedSet {
	s := make(OwnedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s OwnedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
