package collect

// Tier is a rarity class of the set.
type Tier int

const (
	Common Tier = iota
	Uncommon
	Rare
	Mythic
)

// NumTiers is the number of rarity tiers a set is partitioned into.
const NumTiers = 4

// Tiers lists every tier in display order.
var Tiers = [NumTiers]Tier{Common, Uncommon, Rare, Mythic}

func (t Tier) String() string {
	switch t {
	case Common:
		return "Common"
	case Uncommon:
		return "Uncommon"
	case Rare:
		return "Rare"
	case Mythic:
		return "Mythic"
	}
	return "Unknown"
}

// Plural returns the collective name used in reports, e.g. "Rares".
func (t Tier) Plural() string { return t.String() + "s" }

// TierSpec is the per-tier input to the optimizer.
type TierSpec struct {
	Tier               Tier
	SetSize            int     // distinct cards of this tier in the set; 0 means the tier is absent
	Owned              int     // distinct cards already owned, 0..SetSize
	ExpectedNewPerPack float64 // expected new cards of this tier per pack
	WildcardRate       float64 // expected wildcards of this tier per pack
}

// PackEquivalentValue is how many packs one wildcard of this tier is worth.
func (s TierSpec) PackEquivalentValue() float64 {
	return 1 / s.WildcardRate
}

func (s TierSpec) absent() bool { return s.SetSize == 0 }
