package payments_test

import (
	"testing"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEstimateStripeFee(t *testing.T) {
	cases := []struct {
		amount float64
		fee    float64
	}{
		{amount: 10.00, fee: 0.59},
		{amount: 5.00, fee: 0.445},
		{amount: 0.50, fee: 0.3145},
		{amount: 100.00, fee: 3.20},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.fee, domain.EstimateStripeFee(tc.amount), 1e-9, "amount %.2f", tc.amount)
	}
}

func TestNetRevenueNeverExceedsGross(t *testing.T) {
	for _, amount := range []float64{0.5, 1, 2.5, 9.99, 50} {
		fee := domain.EstimateStripeFee(amount)
		assert.Less(t, amount-fee, amount)
		assert.Positive(t, fee)
	}
}
