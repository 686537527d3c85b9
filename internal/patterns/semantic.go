package patterns

import "strings"

// KeywordSet is a semantic category with its multilingual keywords.
type KeywordSet struct {
	Category string
	Keywords []string
}

// DefaultKeywords returns the built-in English, Spanish, German and French
// banking vocabulary.
func DefaultKeywords() []KeywordSet {
	return []KeywordSet{
		{Category: "account", Keywords: []string{"account", "cuenta", "konto", "compte"}},
		{Category: "balance", Keywords: []string{"balance", "saldo", "solde", "bilanz"}},
		{Category: "transaction", Keywords: []string{"transaction", "transaccion", "transaktion"}},
		{Category: "transfer", Keywords: []string{"transfer", "transferencia", "überweisung"}},
		{Category: "payment", Keywords: []string{"payment", "pago", "zahlung", "paiement"}},
		{Category: "deposit", Keywords: []string{"deposit", "deposito", "einzahlung", "dépôt"}},
		{Category: "withdrawal", Keywords: []string{"withdrawal", "retiro", "abhebung", "retrait"}},
	}
}

// countKeywords sums non-overlapping occurrences of every keyword per
// category in the lower-cased text. Categories with no hits are omitted.
func countKeywords(text string, sets []KeywordSet) map[string]int {
	lower := strings.ToLower(text)
	out := map[string]int{}
	for _, set := range sets {
		n := 0
		for _, kw := range set.Keywords {
			if kw == "" {
				continue
			}
			n += strings.Count(lower, strings.ToLower(kw))
		}
		if n > 0 {
			out[set.Category] += n
		}
	}
	return out
}
