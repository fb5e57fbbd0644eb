package ledger

import (
	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VATRate is the fixed value-added tax rate applied to all payments (14%).
var VATRate = decimal.NewFromFloat(0.14)

// vatDivisor is 1 + VATRate, used to extract the base from a VAT-inclusive total.
var vatDivisor = decimal.NewFromInt(1).Add(VATRate)

// Amounts holds the three derived monetary values of a payment.
// Total always equals Base + VAT exactly, at 2-decimal precision.
type Amounts struct {
	Base  decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

// ComputeAmounts derives base, VAT and total amounts from a user-entered
// amount. The inclusion flag decides which value the entered amount is:
// when false it is the tax-exclusive base and VAT is added on top; when
// true it is the VAT-inclusive total and the base is extracted from it.
// All values are rounded half-up to 2 decimals; the third value is always
// computed from the rounded pair so the Base+VAT=Total invariant holds
// without a rounding gap.
func ComputeAmounts(entered decimal.Decimal, includesVAT bool) (Amounts, error) {
	if entered.IsNegative() {
		return Amounts{}, shared.ErrInvalidAmount
	}

	if includesVAT {
		total := entered.Round(2)
		base := total.Div(vatDivisor).Round(2)
		return Amounts{
			Base:  base,
			VAT:   total.Sub(base),
			Total: total,
		}, nil
	}

	base := entered.Round(2)
	vat := base.Mul(VATRate).Round(2)
	return Amounts{
		Base:  base,
		VAT:   vat,
		Total: base.Add(vat),
	}, nil
}

// ParseAmount parses a user-supplied amount string. Empty, malformed and
// negative inputs are rejected with an INVALID_AMOUNT error.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_AMOUNT", "Amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_AMOUNT", "Amount is not a valid number: "+s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return d, nil
}
