package fees

import (
	"github.com/pkg/errors"
)

const DefaultPlatformFeePercentage = 30

var ErrInvalidAmount = errors.New("amount must be positive")

// Split is the division of a quoted amount between the platform and the
// provider, in minor units. PlatformFee + ProviderPayout always equals the
// amount it was computed from.
type Split struct {
	PlatformFee    int64
	ProviderPayout int64
}

type Calculator struct {
	percentage int64
}

func NewCalculator(percentage int64) *Calculator {
	if percentage <= 0 || percentage > 100 {
		percentage = DefaultPlatformFeePercentage
	}
	return &Calculator{percentage: percentage}
}

// ComputeSplit derives the payout as a subtraction from the amount rather
// than a second multiplication, so the sum invariant holds for every amount
// regardless of how the fee division rounds.
func (c *Calculator) ComputeSplit(amount int64) (Split, error) {
	if amount <= 0 {
		return Split{}, errors.Wrapf(ErrInvalidAmount, "got %d", amount)
	}

	platformFee := amount * c.percentage / 100
	providerPayout := amount - platformFee

	return Split{
		PlatformFee:    platformFee,
		ProviderPayout: providerPayout,
	}, nil
}
