package pricing

import (
	"testing"

	"atrips/src/models"
	"atrips/src/types"

	"github.com/stretchr/testify/assert"
)

func TestPriceFullBreakdown(t *testing.T) {
	packages := []models.Package{{Name: "Photo package", Price: 100_000}}

	b, err := Price(500_000, packages, 2, 10, 11, types.PAYMENT_FULL)
	assert.NoError(t, err)

	assert.Equal(t, int64(500_000), b.UnitBase)
	assert.Equal(t, int64(50_000), b.UnitDiscount)
	assert.Equal(t, int64(450_000), b.UnitFinal)
	assert.Equal(t, int64(1_000_000), b.NormalTotal)
	assert.Equal(t, int64(100_000), b.DiscountTotal)
	assert.Equal(t, int64(200_000), b.AddOnTotal)
	assert.Equal(t, int64(1_100_000), b.Subtotal)
	assert.Equal(t, int64(121_000), b.TaxAmount)
	assert.Equal(t, int64(1_221_000), b.TotalWithTax)
	assert.Equal(t, int64(1_221_000), b.AmountDue)
	assert.Equal(t, int64(0), b.RemainingDue)
}

func TestPriceDownPaymentHalves(t *testing.T) {
	b, err := Price(500_000, nil, 2, 10, 11, types.PAYMENT_DP)
	assert.NoError(t, err)

	assert.Equal(t, int64(999_000), b.TotalWithTax)
	// 999,000 / 2 = 499,500: no rounding needed here, and the remainder
	// always equals total minus the amount due.
	assert.Equal(t, int64(499_500), b.AmountDue)
	assert.Equal(t, b.TotalWithTax-b.AmountDue, b.RemainingDue)
}

func TestPriceDownPaymentRoundsOddTotals(t *testing.T) {
	// unit 333, no discount, no tax, one person: total 333, dp rounds
	// 166.5 away from zero to 167.
	b, err := Price(333, nil, 1, 0, 0, types.PAYMENT_DP)
	assert.NoError(t, err)
	assert.Equal(t, int64(333), b.TotalWithTax)
	assert.Equal(t, int64(167), b.AmountDue)
	assert.Equal(t, int64(166), b.RemainingDue)
	assert.Equal(t, b.TotalWithTax, b.AmountDue+b.RemainingDue)
}

func TestPriceZeroPercentagesAreNoops(t *testing.T) {
	b, err := Price(250_000, nil, 3, 0, 0, types.PAYMENT_FULL)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), b.UnitDiscount)
	assert.Equal(t, int64(0), b.TaxAmount)
	assert.Equal(t, int64(750_000), b.AmountDue)
}

func TestPriceRejectsBadInputs(t *testing.T) {
	_, err := Price(100, nil, 0, 0, 0, types.PAYMENT_FULL)
	assert.ErrorIs(t, err, ErrPartySize)

	_, err = Price(100, nil, 1, 101, 0, types.PAYMENT_FULL)
	assert.ErrorIs(t, err, ErrPercentage)

	_, err = Price(100, nil, 1, 0, -1, types.PAYMENT_FULL)
	assert.ErrorIs(t, err, ErrPercentage)

	_, err = Price(100, nil, 1, 0, 0, types.PaymentMode("installments"))
	assert.ErrorIs(t, err, ErrPaymentMode)
}

func TestReverseReceiptRecoversChain(t *testing.T) {
	b, err := Price(500_000, nil, 2, 10, 11, types.PAYMENT_FULL)
	assert.NoError(t, err)

	r := ReverseReceipt(b.AmountDue, 10, 11)
	assert.Equal(t, b.AmountDue, r.Amount)
	assert.Equal(t, b.Subtotal, r.Subtotal)
	assert.Equal(t, b.TaxAmount, r.TaxAmount)
	assert.Equal(t, b.NormalTotal, r.OriginalBase)
}

func TestReverseReceiptFullDiscount(t *testing.T) {
	r := ReverseReceipt(111_000, 100, 11)
	assert.Equal(t, int64(100_000), r.Subtotal)
	assert.Equal(t, int64(11_000), r.TaxAmount)
	// A fully discounted base cannot be reversed; the subtotal stands in.
	assert.Equal(t, r.Subtotal, r.OriginalBase)
}

func TestReverseReceiptZeroRates(t *testing.T) {
	r := ReverseReceipt(123_456, 0, 0)
	assert.Equal(t, int64(123_456), r.Subtotal)
	assert.Equal(t, int64(0), r.TaxAmount)
	assert.Equal(t, int64(123_456), r.OriginalBase)
}
