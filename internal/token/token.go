package token

// Token defines how much in-game currency a pack costs.
type Token struct {
	Name     string // e.g. "Gems", "Gold"
	PerPack  int    // currency per single pack, e.g. 200
	BulkSize int    // optional; packs per bulk purchase, <= 1 disables bulk pricing
	PerBulk  int    // optional; currency per bulk purchase
}

func (t Token) bulk() bool {
	return t.BulkSize > 1 && t.PerBulk > 0
}

// TokensForPacks returns the currency needed for n packs. Whole bulks are
// bought at the bulk price when that is cheaper than singles.
func (t Token) TokensForPacks(n int) int {
	if n <= 0 {
		return 0
	}
	if t.bulk() && t.PerBulk < t.BulkSize*t.PerPack {
		bulks := n / t.BulkSize
		rem := n % t.BulkSize
		return bulks*t.PerBulk + rem*t.PerPack
	}
	return n * t.PerPack
}

// PacksForTokens returns the most packs a currency balance buys.
func (t Token) PacksForTokens(tokens int) int {
	if tokens <= 0 || t.PerPack <= 0 {
		return 0
	}
	best := tokens / t.PerPack
	if !t.bulk() {
		return best
	}
	for bulks := tokens / t.PerBulk; bulks > 0; bulks-- {
		packs := bulks*t.BulkSize + (tokens-bulks*t.PerBulk)/t.PerPack
		if packs > best {
			best = packs
		}
	}
	return best
}
