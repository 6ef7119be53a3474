package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal monetary value. It serializes as a bare JSON
// number so documents keep the numeric layout the legacy tooling wrote.
type Amount struct {
	decimal.Decimal
}

func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func FromFloat(v float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(v)}
}

func FromInt(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

func (a Amount) Round(places int32) Amount {
	return Amount{Decimal: a.Decimal.Round(places)}
}

func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
