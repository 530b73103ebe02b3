// Package money holds rupee amounts as integer paise so balances never drift.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a count of paise (1/100 rupee).
type Amount int64

const Zero Amount = 0

var hundred = decimal.NewFromInt(100)

func FromPaise(p int64) Amount {
	return Amount(p)
}

func FromRupees(r int64) Amount {
	return Amount(r * 100)
}

// FromDecimal rounds half away from zero to the nearest paisa.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(hundred).Round(0).IntPart())
}

func FromFloat(f float64) Amount {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse reads a rupee string such as "199.99".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

func (a Amount) Paise() int64 {
	return int64(a)
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

func (a Amount) Mul(qty int) Amount {
	return a * Amount(qty)
}

// Percent returns pct percent of a, rounded to the paisa.
func (a Amount) Percent(pct decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(pct).Div(hundred))
}

// Scale multiplies by a factor such as 0.65, rounded to the paisa.
func (a Amount) Scale(factor decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(factor))
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both 199.5 and "199.50".
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Zero
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = FromDecimal(d)
	return nil
}

func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
