package dto

import (
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Money renders a decimal as a JSON number fixed to two fractional digits,
// e.g. 150.00, so clients never receive monetary values as strings.
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(domain.MoneyScale)), nil
}

// UnmarshalJSON accepts both quoted and unquoted numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}
