package domain

// Currency is an opaque three-letter tag carried on every ledger entry.
// Amounts are never converted between currencies.
type Currency string

// DefaultCurrency is used for settlements, which do not carry a currency
// of their own.
const DefaultCurrency Currency = "AED"

func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
