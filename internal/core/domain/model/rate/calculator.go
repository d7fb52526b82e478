// Package rate computes what a load is billed.
//
// The total charge of a load is always derived from its three inputs:
//
//	total = rate + fuelSurcharge + accessorials
//
// Any input that was never set counts as zero. Amounts are kernel.Money, so the
// sum is exact to the cent.
package rate

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Calculate returns rate + fuelSurcharge + accessorials, treating nil as zero.
// It has no side effects and returns the same total for the same inputs.
func Calculate(rate, fuelSurcharge, accessorials *kernel.Money) kernel.Money {
	total := kernel.ZeroMoney()
	for _, part := range []*kernel.Money{rate, fuelSurcharge, accessorials} {
		if part != nil {
			total = total.Add(*part)
		}
	}
	return total
}

// Charges holds the billable inputs of a load together with the total derived
// from them. A Charges value can only be obtained from NewCharges, so Total is
// never out of date with its inputs.
type Charges struct {
	rate          *kernel.Money
	fuelSurcharge *kernel.Money
	accessorials  *kernel.Money
	currency      string
	total         kernel.Money
}

// NewCharges validates the inputs and computes the total.
//
// Parameters:
//   - rate, fuelSurcharge, accessorials: optional amounts; negative amounts are rejected
//   - currency: ISO 4217 code; empty means kernel.DefaultCurrency
//
// Returns:
//   - Charges with Total() = Calculate(rate, fuelSurcharge, accessorials)
//   - a joined validation error listing every invalid input
func NewCharges(rate, fuelSurcharge, accessorials *kernel.Money, currency string) (Charges, error) {
	var problems []error
	inputs := []struct {
		name string
		part *kernel.Money
	}{
		{"rate", rate},
		{"fuel surcharge", fuelSurcharge},
		{"accessorials", accessorials},
	}
	for _, in := range inputs {
		if in.part != nil && in.part.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidError(in.name+" must not be negative"))
		}
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = kernel.DefaultCurrency
	}
	if len(currency) != 3 {
		problems = append(problems, errs.NewValueIsInvalidError("currency must be a 3 letter code"))
	}

	if len(problems) > 0 {
		return Charges{}, errors.Join(problems...)
	}

	return Charges{
		rate:          copyMoney(rate),
		fuelSurcharge: copyMoney(fuelSurcharge),
		accessorials:  copyMoney(accessorials),
		currency:      currency,
		total:         Calculate(rate, fuelSurcharge, accessorials),
	}, nil
}

// Rate returns the base rate, or nil when it was never set.
func (c Charges) Rate() *kernel.Money {
	return copyMoney(c.rate)
}

// RateOrZero is the base rate used for revenue reporting.
func (c Charges) RateOrZero() kernel.Money {
	if c.rate == nil {
		return kernel.ZeroMoney()
	}
	return *c.rate
}

func (c Charges) FuelSurcharge() *kernel.Money {
	return copyMoney(c.fuelSurcharge)
}

func (c Charges) Accessorials() *kernel.Money {
	return copyMoney(c.accessorials)
}

func (c Charges) Currency() string {
	if c.currency == "" {
		return kernel.DefaultCurrency
	}
	return c.currency
}

func (c Charges) Total() kernel.Money {
	return c.total
}

func copyMoney(m *kernel.Money) *kernel.Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
