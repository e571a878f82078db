package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/backend/poserr"
)

func d(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func TestCalculateShawarmaOrder(t *testing.T) {
	// Two shawarmas at 45 with 15% tax
	items := []LineItem{
		{ID: 1, NameEn: "Chicken Shawarma", Quantity: 2, Price: d("45")},
	}

	totals, err := Calculate(items, d("0.15"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(d("90")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(d("13.5")), "tax = %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(d("103.5")), "total = %s", totals.Total)
}

func TestCalculateInvariant(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 3, Price: d("12.75")},
		{ID: 2, Quantity: 1, Price: d("7.30")},
		{ID: 3, Quantity: 5, Price: d("0.99")},
	}

	for _, rate := range []string{"0", "0.05", "0.15", "0.2", "1"} {
		totals, err := Calculate(items, d(rate))
		require.NoError(t, err)

		assert.True(t, totals.TaxAmount.Equal(totals.Subtotal.Mul(d(rate)).Round(2)), "rate %s", rate)
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)), "rate %s", rate)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 7, Price: d("3.33")},
		{ID: 2, Quantity: 2, Price: d("19.95")},
	}

	first, err := Calculate(items, d("0.15"))
	require.NoError(t, err)
	second, err := Calculate(items, d("0.15"))
	require.NoError(t, err)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestCalculateRejectsBadInput(t *testing.T) {
	var validation *poserr.ValidationError

	_, err := Calculate(nil, d("0.15"))
	assert.ErrorAs(t, err, &validation)

	_, err = Calculate([]LineItem{{ID: 1, Quantity: 0, Price: d("10")}}, d("0.15"))
	assert.ErrorAs(t, err, &validation)

	_, err = Calculate([]LineItem{{ID: 1, Quantity: -2, Price: d("10")}}, d("0.15"))
	assert.ErrorAs(t, err, &validation)

	_, err = Calculate([]LineItem{{ID: 1, Quantity: 1, Price: d("-1")}}, d("0.15"))
	assert.ErrorAs(t, err, &validation)

	_, err = Calculate([]LineItem{{ID: 1, Quantity: 1, Price: d("10")}}, d("1.5"))
	assert.ErrorAs(t, err, &validation)

	_, err = Calculate([]LineItem{{ID: 1, Quantity: 1, Price: d("10")}}, d("-0.1"))
	assert.ErrorAs(t, err, &validation)
}

func TestLineItemSubtotal(t *testing.T) {
	line := LineItem{Quantity: 3, Price: d("9.99")}
	assert.True(t, line.Subtotal().Equal(d("29.97")))
}
