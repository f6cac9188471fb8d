package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Reward computes the consultant's net payable amount in yen. The platform fee
// is the fee times the rate, rounded down to a whole yen (in the consultant's
// favour); the transfer fee is deducted flat. The result never goes below zero.
func Reward(feePerHourInYen int64, platformFeeRateInPercentage string, transferFeeInYen int64) (int64, error) {
	rate, err := decimal.NewFromString(platformFeeRateInPercentage)
	if err != nil {
		return 0, fmt.Errorf("parse platform fee rate %q: %w", platformFeeRateInPercentage, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return 0, fmt.Errorf("platform fee rate %q out of range", platformFeeRateInPercentage)
	}
	fee := decimal.NewFromInt(feePerHourInYen)
	platformFee := fee.Mul(rate).Div(decimal.NewFromInt(100)).Floor()
	reward := fee.Sub(platformFee).Sub(decimal.NewFromInt(transferFeeInYen))
	if reward.IsNegative() {
		return 0, nil
	}
	return reward.IntPart(), nil
}
