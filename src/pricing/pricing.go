package pricing

import (
	"errors"
	"fmt"
	"math"

	"atrips/src/models"
	"atrips/src/types"
)

var (
	ErrPartySize      = errors.New("party size must be at least 1")
	ErrPercentage     = errors.New("percentage must be between 0 and 100")
	ErrPaymentMode    = errors.New("unknown payment mode")
	ErrQuotaExhausted = errors.New("no remaining quota for the selected date")
)

// Breakdown is an itemized price. All amounts are in the smallest
// currency unit; every intermediate is rounded before later sums, and
// the receipt reversal depends on that exact chain.
type Breakdown struct {
	UnitBase      int64             `json:"unit_base"`
	UnitDiscount  int64             `json:"unit_discount"`
	UnitFinal     int64             `json:"unit_final"`
	NormalTotal   int64             `json:"normal_total"`
	DiscountTotal int64             `json:"discount_total"`
	AddOnTotal    int64             `json:"addon_total"`
	Subtotal      int64             `json:"subtotal"`
	TaxAmount     int64             `json:"tax_amount"`
	TotalWithTax  int64             `json:"total_with_tax"`
	AmountDue     int64             `json:"amount_due"`
	// RemainingDue is the informally tracked second half of a down
	// payment; nothing schedules its collection.
	RemainingDue int64             `json:"remaining_due,omitempty"`
	Mode         types.PaymentMode `json:"payment_mode"`
}

// round is half-away-from-zero at the smallest currency unit.
func round(x float64) int64 {
	return int64(math.Round(x))
}

// Price computes the itemized price for a selection. unitBase is the
// already-resolved per-unit base price (meeting point, date minimum, or
// fallback). Each selected package contributes its price once per
// participant; packages are additive.
func Price(unitBase int64, packages []models.Package, partySize int, discountPct, taxPct float64, mode types.PaymentMode) (Breakdown, error) {
	if partySize < 1 {
		return Breakdown{}, ErrPartySize
	}
	if discountPct < 0 || discountPct > 100 || taxPct < 0 || taxPct > 100 {
		return Breakdown{}, ErrPercentage
	}
	if mode != types.PAYMENT_FULL && mode != types.PAYMENT_DP {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrPaymentMode, mode)
	}

	unitDiscount := round(float64(unitBase) * discountPct / 100)
	unitFinal := unitBase - unitDiscount

	var addOnUnit int64
	for _, p := range packages {
		addOnUnit += p.Price
	}

	n := int64(partySize)
	b := Breakdown{
		UnitBase:      unitBase,
		UnitDiscount:  unitDiscount,
		UnitFinal:     unitFinal,
		NormalTotal:   unitBase * n,
		DiscountTotal: unitDiscount * n,
		AddOnTotal:    addOnUnit * n,
		Mode:          mode,
	}
	b.Subtotal = unitFinal*n + b.AddOnTotal
	b.TaxAmount = round(float64(b.Subtotal) * taxPct / 100)
	b.TotalWithTax = b.Subtotal + b.TaxAmount

	if mode == types.PAYMENT_DP {
		b.AmountDue = round(float64(b.TotalWithTax) * 0.5)
		b.RemainingDue = b.TotalWithTax - b.AmountDue
	} else {
		b.AmountDue = b.TotalWithTax
	}
	return b, nil
}

// Receipt is the display-only reconstruction of a frozen amount.
type Receipt struct {
	Amount       int64 `json:"amount"`
	Subtotal     int64 `json:"subtotal"`
	TaxAmount    int64 `json:"tax_amount"`
	OriginalBase int64 `json:"original_base"`
}

// ReverseReceipt recovers the pre-tax subtotal and pre-discount base
// from a frozen amount by inverting the tax and discount steps. Used for
// display only; a zero discount is a no-op, a 100% discount leaves the
// base unrecoverable and reports the subtotal instead.
func ReverseReceipt(amount int64, discountPct, taxPct float64) Receipt {
	r := Receipt{Amount: amount}
	r.Subtotal = round(float64(amount) / (1 + taxPct/100))
	r.TaxAmount = amount - r.Subtotal
	if discountPct >= 100 {
		r.OriginalBase = r.Subtotal
		return r
	}
	r.OriginalBase = round(float64(r.Subtotal) / (1 - discountPct/100))
	return r
}
