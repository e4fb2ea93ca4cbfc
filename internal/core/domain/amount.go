package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal quantity of currency. Budgets and prices are
// held as Amounts so that every node applying the same transition computes
// the same balance; binary floating point is never involved.
//
// Amount serialises as a bare JSON number in its shortest exact decimal
// form ("999.9698", "0", "1000"), independent of locale and of how the value
// was originally written ("1000.00" and "1e3" both encode as "1000").
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// Amounts carry at most MaxScale fractional digits and MaxIntegerDigits
// integer digits. Anything wider is rejected before it can be stored, since
// the canonical form writes every digit out.
const (
	MaxScale         = 18
	MaxIntegerDigits = 30
)

func checkRange(d decimal.Decimal) error {
	if d.Exponent() < -MaxScale {
		return fmt.Errorf("%w: amount has more than %d fractional digits", ErrInvalidAsset, MaxScale)
	}
	if d.NumDigits()+int(d.Exponent()) > MaxIntegerDigits {
		return fmt.Errorf("%w: amount exceeds %d integer digits", ErrInvalidAsset, MaxIntegerDigits)
	}
	return nil
}

// ParseAmount parses a decimal string such as "0.01" or "1000".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty amount", ErrInvalidAsset)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidAsset, s, err)
	}
	if err = checkRange(d); err != nil {
		return Amount{}, err
	}
	return Amount{value: d}, nil
}

// MustAmount is like ParseAmount but panics on malformed input. It is meant
// for constants and tests.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromInt returns the amount equal to i.
func AmountFromInt(i int64) Amount {
	return Amount{value: decimal.NewFromInt(i)}
}

func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int { return a.value.Cmp(b.value) }

func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool { return a.value.IsZero() }
func (a Amount) IsNegative() bool { return a.value.IsNegative() }
func (a Amount) Decimal() decimal.Decimal { return a.value }

// InRange reports whether a fits the MaxScale and MaxIntegerDigits bounds.
func (a Amount) InRange() bool { return checkRange(a.value) == nil }

// String returns the canonical decimal form without exponent or trailing
// zeros.
func (a Amount) String() string {
	return a.value.String()
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts both bare and quoted decimal literals within the
// MaxScale and MaxIntegerDigits bounds.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if err := checkRange(d); err != nil {
		return err
	}
	a.value = d
	return nil
}
