// Package financial folds pattern matches into accounts, amounts, banks,
// transactions and currencies.
package financial

import (
	"sort"
	"strings"

	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Limits caps how many matches of each kind are carried over.
type Limits struct {
	Accounts     int // per account category
	Amounts      int // per amount category
	Banks        int
	Transactions int
}

func DefaultLimits() Limits {
	return Limits{Accounts: 20, Amounts: 50, Banks: 10, Transactions: 20}
}

// Aggregate never fails; missing categories yield empty lists.
func Aggregate(set types.PatternSet, lim Limits) types.FinancialExtract {
	out := types.FinancialExtract{
		Accounts:     []string{},
		Amounts:      []types.Amount{},
		Banks:        []string{},
		Transactions: []string{},
		Currencies:   []string{},
	}
	out.Accounts = appendDecoded(out.Accounts, set.Get(patterns.AccountNumber), lim.Accounts)
	out.Accounts = appendDecoded(out.Accounts, set.Get(patterns.IBAN), lim.Accounts)

	found := map[string]bool{}
	for _, cat := range patterns.AmountCategories() {
		for _, m := range head(set.Get(cat), lim.Amounts) {
			out.Amounts = append(out.Amounts, types.Amount{Raw: m.Decoded, Offset: m.Offset, Context: m.Context})
			upper := strings.ToUpper(m.Decoded)
			for _, code := range patterns.CurrencyCodes() {
				if strings.Contains(upper, code) {
					found[code] = true
				}
			}
		}
	}
	for code := range found {
		out.Currencies = append(out.Currencies, code)
	}
	sort.Strings(out.Currencies)

	out.Banks = appendDecoded(out.Banks, set.Get(patterns.BankName), lim.Banks)
	out.Transactions = appendDecoded(out.Transactions, set.Get(patterns.TransactionRef), lim.Transactions)
	return out
}

func head(ms []types.PatternMatch, n int) []types.PatternMatch {
	if n >= 0 && len(ms) > n {
		return ms[:n]
	}
	return ms
}

func appendDecoded(dst []string, ms []types.PatternMatch, n int) []string {
	for _, m := range head(ms, n) {
		dst = append(dst, m.Decoded)
	}
	return dst
}
