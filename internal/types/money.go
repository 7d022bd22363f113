// README: Common money value object used across modules.
package types

type Money struct {
	Amount   int64 // minor units (cents)
	Currency string
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Mul scales the amount by n, keeping the currency.
func (m Money) Mul(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// Add sums two amounts. Currencies are assumed to match; the left
// currency wins when the receiver's is empty.
func (m Money) Add(o Money) Money {
	cur := m.Currency
	if cur == "" {
		cur = o.Currency
	}
	return Money{Amount: m.Amount + o.Amount, Currency: cur}
}

// Sub subtracts o from m.
func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}
}
