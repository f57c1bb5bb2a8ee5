package fees_test

import (
	"testing"

	"booking-admin-service/internal/fees"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name           string
		percentage     int64
		amount         int64
		platformFee    int64
		providerPayout int64
	}{
		{
			name:           "thirty percent of 1500",
			percentage:     30,
			amount:         1500,
			platformFee:    450,
			providerPayout: 1050,
		},
		{
			name:           "rounds fee down and keeps remainder in payout",
			percentage:     30,
			amount:         101,
			platformFee:    30,
			providerPayout: 71,
		},
		{
			name:           "minimum amount",
			percentage:     30,
			amount:         1,
			platformFee:    0,
			providerPayout: 1,
		},
		{
			name:           "custom percentage",
			percentage:     15,
			amount:         2000,
			platformFee:    300,
			providerPayout: 1700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calculator := fees.NewCalculator(tt.percentage)

			split, err := calculator.ComputeSplit(tt.amount)

			assert.NoError(t, err)
			assert.Equal(t, tt.platformFee, split.PlatformFee)
			assert.Equal(t, tt.providerPayout, split.ProviderPayout)
		})
	}
}

func TestComputeSplit_SumInvariant(t *testing.T) {
	calculator := fees.NewCalculator(30)

	for amount := int64(1); amount <= 10_000; amount++ {
		split, err := calculator.ComputeSplit(amount)

		assert.NoError(t, err)
		assert.Equal(t, amount, split.PlatformFee+split.ProviderPayout, "amount %d", amount)
	}
}

func TestComputeSplit_InvalidAmount(t *testing.T) {
	calculator := fees.NewCalculator(30)

	for _, amount := range []int64{0, -1, -1500} {
		_, err := calculator.ComputeSplit(amount)

		assert.True(t, errors.Is(err, fees.ErrInvalidAmount), "amount %d", amount)
	}
}

func TestComputeSplit_Deterministic(t *testing.T) {
	calculator := fees.NewCalculator(30)

	first, err := calculator.ComputeSplit(1500)
	assert.NoError(t, err)
	second, err := calculator.ComputeSplit(1500)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewCalculator_FallsBackToDefaultPercentage(t *testing.T) {
	for _, percentage := range []int64{0, -5, 101} {
		calculator := fees.NewCalculator(percentage)

		split, err := calculator.ComputeSplit(1000)

		assert.NoError(t, err)
		assert.Equal(t, int64(300), split.PlatformFee, "percentage %d", percentage)
	}
}
